// Package config loads the settings shared by the spff commands.
//
// Values come from spff.yaml (searched in the given path, the working
// directory and ./configs), then SPFF_* environment variables, then
// command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kkyr/fig"
	"github.com/spf13/pflag"

	"github.com/spffcodec/spff"
)

const (
	EnvPrefix = "SPFF"
	FileName  = "spff.yaml"
)

type Config struct {
	Log      Log
	Encode   Encode
	Decode   Decode
	Compress Compress
	Metrics  Metrics
}

type Log struct {
	Debug   bool
	Console bool
	NoColor bool `fig:"no_color"`
}

type Encode struct {
	MaxPixels int `fig:"max_pixels" default:"400000000"`
	Resize    Resize
}

// Resize scales the source before encoding. A zero side keeps the aspect ratio;
// both zero disables resizing.
type Resize struct {
	Width  int
	Height int
	Kernel string `default:"catmullrom"`
}

type Decode struct {
	Reconstruction string `default:"mean"`
	Workers        int
	Format         string `default:"png"`
	MaxPixels      int    `fig:"max_pixels" default:"400000000"`
}

// Compress controls the optional zstd envelope around encoded files.
type Compress struct {
	Enabled bool
	Level   int `default:"3"`
}

type Metrics struct {
	// Textfile, when set, receives the run's metrics in Prometheus text format.
	Textfile string
}

var (
	Kernels = []string{"nearest", "approxbilinear", "bilinear", "catmullrom"}
	Formats = []string{"png", "bmp", "tiff"}
)

// Load reads the configuration. An explicit path that holds no spff.yaml is
// an error; without a path a missing file just leaves defaults and env.
func Load(path string) (*Config, error) {
	var conf Config
	dirs := []string{path}
	if path == "" {
		dirs = []string{".", "configs"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, home+"/.config/spff")
		}
	}
	err := fig.Load(&conf, fig.File(FileName), fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
	if errors.Is(err, fig.ErrFileNotFound) && path == "" {
		conf = Config{}
		err = fig.Load(&conf, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &conf, nil
}

// Validate checks values that fig cannot express as tags.
func (c *Config) Validate() error {
	if _, err := spff.ParseReconstruction(c.Decode.Reconstruction); err != nil {
		return fmt.Errorf("config: decode.reconstruction: %w", err)
	}
	if !oneOf(c.Encode.Resize.Kernel, Kernels) {
		return fmt.Errorf("config: encode.resize.kernel %q, want one of %v", c.Encode.Resize.Kernel, Kernels)
	}
	if c.Encode.Resize.Width < 0 || c.Encode.Resize.Height < 0 {
		return fmt.Errorf("config: encode.resize %dx%d is negative", c.Encode.Resize.Width, c.Encode.Resize.Height)
	}
	if !oneOf(c.Decode.Format, Formats) {
		return fmt.Errorf("config: decode.format %q, want one of %v", c.Decode.Format, Formats)
	}
	if c.Decode.Workers < 0 {
		return fmt.Errorf("config: decode.workers %d is negative", c.Decode.Workers)
	}
	if c.Compress.Level < 0 || c.Compress.Level > 22 {
		return fmt.Errorf("config: compress.level %d, want 0..22", c.Compress.Level)
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// AddLogFlags registers the logging and metrics overrides.
func AddLogFlags(fs *pflag.FlagSet) {
	fs.Bool("debug", false, "Enable debug logging")
	fs.Bool("console", false, "Human-readable log output instead of JSON")
	fs.Bool("no-color", false, "Disable colors in console logs")
	fs.String("metrics-textfile", "", "Write run metrics in Prometheus text format to this file")
}

// AddEncodeFlags registers the encoder overrides.
func AddEncodeFlags(fs *pflag.FlagSet) {
	fs.Int("max-pixels", 0, "Refuse images with more pixels than this")
	fs.String("resize", "", "Resize the source before encoding, WxH (0 keeps the aspect ratio)")
	fs.String("kernel", "", "Resize kernel: "+strings.Join(Kernels, ", "))
	fs.Bool("zstd", false, "Wrap the output in a zstd envelope")
	fs.Int("level", 0, "zstd level (1-22)")
}

// AddDecodeFlags registers the decoder overrides.
func AddDecodeFlags(fs *pflag.FlagSet) {
	fs.String("mode", "", "Reconstruction: mean or legacy")
	fs.Int("workers", 0, "Decode goroutines (0 = auto)")
	fs.String("format", "", "Output format: "+strings.Join(Formats, ", "))
}

// ApplyFlags copies every flag the user set explicitly over the loaded values.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	var err error
	set := func(name string, apply func() error) {
		if err == nil && changed(name) {
			err = apply()
		}
	}

	set("debug", func() (e error) { c.Log.Debug, e = fs.GetBool("debug"); return })
	set("console", func() (e error) { c.Log.Console, e = fs.GetBool("console"); return })
	set("no-color", func() (e error) { c.Log.NoColor, e = fs.GetBool("no-color"); return })
	set("metrics-textfile", func() (e error) { c.Metrics.Textfile, e = fs.GetString("metrics-textfile"); return })
	set("max-pixels", func() error {
		n, e := fs.GetInt("max-pixels")
		c.Encode.MaxPixels, c.Decode.MaxPixels = n, n
		return e
	})
	set("resize", func() error {
		v, e := fs.GetString("resize")
		if e != nil {
			return e
		}
		c.Encode.Resize.Width, c.Encode.Resize.Height, e = ParseSize(v)
		return e
	})
	set("kernel", func() (e error) { c.Encode.Resize.Kernel, e = fs.GetString("kernel"); return })
	set("zstd", func() (e error) { c.Compress.Enabled, e = fs.GetBool("zstd"); return })
	set("level", func() (e error) { c.Compress.Level, e = fs.GetInt("level"); return })
	set("mode", func() (e error) { c.Decode.Reconstruction, e = fs.GetString("mode"); return })
	set("workers", func() (e error) { c.Decode.Workers, e = fs.GetInt("workers"); return })
	set("format", func() (e error) { c.Decode.Format, e = fs.GetString("format"); return })
	return err
}

// ParseSize parses "WxH". Either side may be 0.
func ParseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	if w, err = strconv.Atoi(ws); err != nil || w < 0 {
		return 0, 0, fmt.Errorf("size %q: bad width", s)
	}
	if h, err = strconv.Atoi(hs); err != nil || h < 0 {
		return 0, 0, fmt.Errorf("size %q: bad height", s)
	}
	return w, h, nil
}
