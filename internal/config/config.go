// Package config loads the YAML run configuration and maps it onto a
// baseband request, an output target and the transmitter settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/go-baseband"
	"github.com/tphakala/go-baseband/internal/logging"
	"github.com/tphakala/go-baseband/internal/sink"
	"github.com/tphakala/go-baseband/internal/tts"
	"github.com/tphakala/go-baseband/internal/voice"
)

// ErrInvalidConfig is returned for configuration that does not parse or
// validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "iqsynth.yaml"

// Speech engines selectable in the voice section.
const (
	EngineESpeak = "espeak"
	EngineTones  = "tones"
)

// Config represents the application configuration
type Config struct {
	General GeneralConfig  `yaml:"general"`
	APRS    APRSConfig     `yaml:"aprs"`
	GFSK    GFSKConfig     `yaml:"gfsk"`
	FM      FMConfig       `yaml:"fm"`
	Voice   VoiceConfig    `yaml:"voice"`
	QPSK    QPSKConfig     `yaml:"qpsk"`
	HackRF  HackRFConfig   `yaml:"hackrf"`
	Logging logging.Config `yaml:"logging"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `yaml:"-"`
}

// GeneralConfig selects what is generated and where it goes
type GeneralConfig struct {
	Modulation string `yaml:"modulation"`
	Data       string `yaml:"data"`
	Output     string `yaml:"output"` // stdout, hackrf, file:<path> or a path; strftime verbs are expanded
	Format     string `yaml:"format"`
	Debug      bool   `yaml:"debug"`
}

// APRSConfig contains APRS addressing and modulation settings
type APRSConfig struct {
	Callsign      string  `yaml:"callsign"`
	Destination   string  `yaml:"destination"`
	Path          string  `yaml:"path"`
	AudioRate     int     `yaml:"audio_rate"`
	FreqDeviation float64 `yaml:"freq_deviation"`
	Interpolation int     `yaml:"interpolation"`
}

// GFSKConfig contains GFSK modulation settings
type GFSKConfig struct {
	BaudRate      int     `yaml:"baud_rate"`
	SampleRate    int     `yaml:"sample_rate"`
	FreqDeviation float64 `yaml:"freq_deviation"`
	BT            float64 `yaml:"bt"`
}

// FMConfig contains settings for the tone FM mode
type FMConfig struct {
	SampleRate    int     `yaml:"sample_rate"`
	FreqDeviation float64 `yaml:"freq_deviation"`
	ToneRate      int     `yaml:"tone_rate"`
	ToneHz        float64 `yaml:"tone_hz"`
	CharDuration  float64 `yaml:"char_duration"`
	Volume        float64 `yaml:"volume"`
	Resampler     string  `yaml:"resampler"` // polyphase or linear
}

// VoiceConfig contains speech and voice FM settings
type VoiceConfig struct {
	Engine        string  `yaml:"engine"` // espeak or tones
	TTSBinary     string  `yaml:"tts_binary"`
	TTSVoice      string  `yaml:"tts_voice"`
	WordsPerMin   int     `yaml:"words_per_minute"`
	TTSSampleRate int     `yaml:"tts_sample_rate"`
	Volume        float64 `yaml:"volume"`
	AudioFile     string  `yaml:"audio_file"` // modulate this WAV instead of speaking
	SampleRate    int     `yaml:"sample_rate"`
	FreqDeviation float64 `yaml:"freq_deviation"`
	Resampler     string  `yaml:"resampler"`
}

// QPSKConfig contains QPSK modulation settings
type QPSKConfig struct {
	SamplesPerSymbol int     `yaml:"samples_per_symbol"`
	RollOff          float64 `yaml:"roll_off"`
	NumTaps          int     `yaml:"num_taps"`
	CarrierOffset    float64 `yaml:"carrier_offset"`
	Coding           bool    `yaml:"coding"`
}

// HackRFConfig contains transmitter settings
type HackRFConfig struct {
	Binary     string  `yaml:"binary"`
	Frequency  float64 `yaml:"frequency"`
	SampleRate float64 `yaml:"sample_rate"`
	TXVGAGain  int     `yaml:"txvga_gain"`
	AmpEnable  bool    `yaml:"amp_enable"`
	Repeat     bool    `yaml:"repeat"`
}

// Default returns the built-in configuration.
func Default() *Config {
	req := baseband.DefaultRequest(baseband.SchemeGFSK)
	dev := sink.DefaultDeviceConfig()

	return &Config{
		General: GeneralConfig{
			Modulation: baseband.SchemeGFSK.String(),
			Output:     "stdout",
			Format:     baseband.FormatF32.String(),
		},
		APRS: APRSConfig{
			Callsign:      req.APRS.Source,
			Destination:   req.APRS.Destination,
			Path:          req.APRS.Path,
			AudioRate:     req.APRS.AFSK.SampleRate,
			FreqDeviation: req.APRS.Deviation,
			Interpolation: req.APRS.Interpolation,
		},
		GFSK: GFSKConfig{
			BaudRate:      req.GFSK.BaudRate,
			SampleRate:    req.GFSK.SampleRate,
			FreqDeviation: req.GFSK.Deviation,
			BT:            req.GFSK.BT,
		},
		FM: FMConfig{
			SampleRate:    req.FM.SampleRate,
			FreqDeviation: req.FM.Deviation,
			ToneRate:      req.Tones.SampleRate,
			ToneHz:        req.Tones.ToneHz,
			CharDuration:  req.Tones.CharDuration,
			Volume:        req.Tones.Volume,
			Resampler:     req.FM.Resampler.String(),
		},
		Voice: VoiceConfig{
			Engine:        EngineESpeak,
			TTSBinary:     tts.DefaultESpeakBinary,
			WordsPerMin:   tts.DefaultWordsPerMin,
			TTSSampleRate: req.Voice.SampleRate,
			Volume:        req.Voice.Volume,
			SampleRate:    req.FM.SampleRate,
			FreqDeviation: req.FM.Deviation,
			Resampler:     req.FM.Resampler.String(),
		},
		QPSK: QPSKConfig{
			SamplesPerSymbol: req.QPSK.SamplesPerSymbol,
			RollOff:          req.QPSK.RollOff,
			NumTaps:          req.QPSK.NumTaps,
			CarrierOffset:    req.QPSK.CarrierOffset,
			Coding:           req.QPSK.Coding,
		},
		HackRF: HackRFConfig{
			Binary:     sink.DefaultHackRFBinary,
			Frequency:  dev.CenterFrequency,
			SampleRate: dev.SampleRate,
			TXVGAGain:  dev.Gain,
			AmpEnable:  dev.AmpEnable,
			Repeat:     true,
		},
		Logging: logging.Config{Level: logging.DefaultLevel},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes YAML over the defaults. Keys absent from data keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks every section the selected modulation and output use.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	req, err := c.Request()
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	out, err := c.Output(time.Now())
	if err != nil {
		return err
	}
	if out.Kind == OutputHackRF {
		dev := c.Device()
		if err := dev.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Request maps the configuration onto a baseband request. The speech
// engine is chosen here; the logger is left for the caller.
func (c *Config) Request() (baseband.Request, error) {
	scheme, err := baseband.ParseScheme(c.General.Modulation)
	if err != nil {
		return baseband.Request{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	format, err := baseband.ParseFormat(c.General.Format)
	if err != nil {
		return baseband.Request{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	req := baseband.DefaultRequest(scheme)
	req.Data = c.General.Data
	req.Format = format

	req.APRS.Source = c.APRS.Callsign
	req.APRS.Destination = c.APRS.Destination
	req.APRS.Path = c.APRS.Path
	req.APRS.AFSK.SampleRate = c.APRS.AudioRate
	req.APRS.Deviation = c.APRS.FreqDeviation
	req.APRS.Interpolation = c.APRS.Interpolation

	req.GFSK = baseband.GFSKConfig{
		BaudRate:   c.GFSK.BaudRate,
		SampleRate: c.GFSK.SampleRate,
		Deviation:  c.GFSK.FreqDeviation,
		BT:         c.GFSK.BT,
	}

	req.QPSK = baseband.QPSKConfig{
		SamplesPerSymbol: c.QPSK.SamplesPerSymbol,
		RollOff:          c.QPSK.RollOff,
		NumTaps:          c.QPSK.NumTaps,
		CarrierOffset:    c.QPSK.CarrierOffset,
		Coding:           c.QPSK.Coding,
	}

	req.Tones = baseband.ToneConfig{
		SampleRate:   c.FM.ToneRate,
		ToneHz:       c.FM.ToneHz,
		CharDuration: c.FM.CharDuration,
		Volume:       c.FM.Volume,
	}
	// Voice runs its own FM section.
	rate, dev, resampler := c.FM.SampleRate, c.FM.FreqDeviation, c.FM.Resampler
	if scheme == baseband.SchemeVoice {
		rate, dev, resampler = c.Voice.SampleRate, c.Voice.FreqDeviation, c.Voice.Resampler
	}
	mode, err := baseband.ParseResampleMode(resampler)
	if err != nil {
		return baseband.Request{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	req.FM = baseband.FMConfig{SampleRate: rate, Deviation: dev, Resampler: mode}

	if scheme == baseband.SchemeVoice {
		synth, err := c.Voice.synthesizer()
		if err != nil {
			return baseband.Request{}, err
		}
		req.Voice = baseband.VoiceOptions{
			Synthesizer: synth,
			AudioFile:   c.Voice.AudioFile,
			SampleRate:  c.Voice.TTSSampleRate,
			Volume:      c.Voice.Volume,
		}
	}
	return req, nil
}

func (v *VoiceConfig) synthesizer() (baseband.Synthesizer, error) {
	switch strings.ToLower(v.Engine) {
	case "", EngineESpeak:
		return &tts.ESpeak{Binary: v.TTSBinary, WordsPerMin: v.WordsPerMin, Voice: v.TTSVoice}, nil
	case EngineTones:
		return tts.Tones{Config: voice.DefaultToneConfig()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown speech engine %q", ErrInvalidConfig, v.Engine)
	}
}

// Device returns the transmitter settings.
func (c *Config) Device() sink.DeviceConfig {
	return sink.DeviceConfig{
		CenterFrequency: c.HackRF.Frequency,
		SampleRate:      c.HackRF.SampleRate,
		Gain:            c.HackRF.TXVGAGain,
		AmpEnable:       c.HackRF.AmpEnable,
	}
}

// LoggingConfig returns the logging section with the general debug switch
// applied.
func (c *Config) LoggingConfig() logging.Config {
	lc := c.Logging
	if c.General.Debug {
		lc.Level = "debug"
	}
	return lc
}

// OutputKind is where generated samples go.
type OutputKind int

const (
	// OutputStdout writes the encoded stream to standard output.
	OutputStdout OutputKind = iota

	// OutputFile writes the encoded stream to Output.Path.
	OutputFile

	// OutputHackRF transmits through the HackRF sink.
	OutputHackRF
)

// Output is a resolved output target.
type Output struct {
	Kind OutputKind
	Path string
}

const filePrefix = "file:"

// Output resolves General.Output, expanding strftime verbs in file paths
// against now.
func (c *Config) Output(now time.Time) (Output, error) {
	return ParseOutput(c.General.Output, now)
}

// ParseOutput resolves an output descriptor: "stdout", "-" or empty for
// standard output, "hackrf" for the transmitter, and "file:<path>" or a bare
// path for a file.
func ParseOutput(spec string, now time.Time) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case "", "-", "stdout":
		return Output{Kind: OutputStdout}, nil
	case "hackrf":
		return Output{Kind: OutputHackRF}, nil
	}

	pattern := strings.TrimSpace(spec)
	if len(pattern) >= len(filePrefix) && strings.EqualFold(pattern[:len(filePrefix)], filePrefix) {
		pattern = pattern[len(filePrefix):]
	}
	if pattern == "" {
		return Output{}, fmt.Errorf("%w: empty output path", ErrInvalidConfig)
	}

	path, err := strftime.Format(pattern, now)
	if err != nil {
		return Output{}, fmt.Errorf("%w: output pattern %q: %w", ErrInvalidConfig, pattern, err)
	}
	return Output{Kind: OutputFile, Path: path}, nil
}
