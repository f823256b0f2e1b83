package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"solar-risk/internal/detrend"
	"solar-risk/internal/model"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load site parameters from a separate YAML. If both
	// SiteFile and Site are provided, Site overrides SiteFile.
	SiteFile string         `yaml:"site_file"`
	Site     SiteConfig     `yaml:"site"`
	Contract ContractConfig `yaml:"contract"`
	Detrend  DetrendConfig  `yaml:"detrend"`
}

type SiteConfig struct {
	Name              string  `yaml:"name"`
	AreaCells         float64 `yaml:"area_cells"`
	Efficiency        float64 `yaml:"efficiency"`
	PerformanceFactor float64 `yaml:"performance_factor"`
	ClientP50         float64 `yaml:"client_p50"`
}

type ContractConfig struct {
	Strike     float64 `yaml:"strike"`
	Exit       float64 `yaml:"exit"`
	PPA        float64 `yaml:"ppa"`
	BlowPoint  float64 `yaml:"blow_point"`
	BlowFactor float64 `yaml:"blow_factor"`
}

type DetrendConfig struct {
	Method    string  `yaml:"method"`
	Bandwidth float64 `yaml:"bandwidth"`
	StartYear int     `yaml:"start_year"`
	EndYear   int     `yaml:"end_year"`
	// YearStartMonth anchors generation years (1 = calendar years,
	// 9 = September-to-August).
	YearStartMonth int `yaml:"year_start_month"`
}

// Default returns the configuration used when no file is given. Values
// match the reference plant the tool was built around.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			AreaCells:         348_642,
			Efficiency:        0.165,
			PerformanceFactor: 0.7969,
			ClientP50:         112_684,
		},
		Contract: ContractConfig{
			Strike:     110_193,
			Exit:       100_000,
			PPA:        5_000,
			BlowPoint:  107_000,
			BlowFactor: -30,
		},
		Detrend: DetrendConfig{
			Method:         detrend.MethodLinear,
			Bandwidth:      3,
			StartYear:      2000,
			EndYear:        2024,
			YearStartMonth: int(time.September),
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.SiteFile != "" {
		sitePath := c.SiteFile
		if !filepath.IsAbs(sitePath) {
			// Prefer paths relative to the config file directory; fall
			// back to cwd-relative if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), sitePath)
			if _, err := os.Stat(cand); err == nil {
				sitePath = cand
			}
		}
		loaded, err := loadSiteFile(sitePath)
		if err != nil {
			return nil, err
		}
		c.Site = MergeSite(loaded, c.Site)
	}
	return &c, nil
}

// applyDefaults fills omitted detrend fields so concise configs work.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Detrend.Method == "" {
		c.Detrend.Method = def.Detrend.Method
	}
	if c.Detrend.Bandwidth == 0 {
		c.Detrend.Bandwidth = def.Detrend.Bandwidth
	}
	if c.Detrend.StartYear == 0 {
		c.Detrend.StartYear = def.Detrend.StartYear
	}
	if c.Detrend.EndYear == 0 {
		c.Detrend.EndYear = def.Detrend.EndYear
	}
	if c.Detrend.YearStartMonth == 0 {
		c.Detrend.YearStartMonth = def.Detrend.YearStartMonth
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Site.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("site config invalid: %w", err)
	}
	if err := c.Contract.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("contract config invalid: %w", err)
	}
	if _, err := detrend.New(c.Detrend.Method, bandwidthOrOne(c.Detrend)); err != nil {
		return fmt.Errorf("detrend config invalid: %w", err)
	}
	if c.Detrend.StartYear > c.Detrend.EndYear {
		return errors.New("detrend config invalid: start_year after end_year")
	}
	if c.Detrend.YearStartMonth < 1 || c.Detrend.YearStartMonth > 12 {
		return errors.New("detrend config invalid: year_start_month must be 1..12")
	}
	return nil
}

// bandwidthOrOne keeps bandwidth validation kernel-only: the other methods
// ignore the value entirely.
func bandwidthOrOne(d DetrendConfig) float64 {
	if d.Method == detrend.MethodKernel {
		return d.Bandwidth
	}
	return 1
}

func (s SiteConfig) ToModelParams() model.SiteParams {
	return model.SiteParams{
		AreaCells:         s.AreaCells,
		Efficiency:        s.Efficiency,
		PerformanceFactor: s.PerformanceFactor,
		ClientP50:         s.ClientP50,
	}
}

func (c ContractConfig) ToModelParams() model.ContractParams {
	return model.ContractParams{
		Strike:     c.Strike,
		Exit:       c.Exit,
		PPA:        c.PPA,
		BlowPoint:  c.BlowPoint,
		BlowFactor: c.BlowFactor,
	}
}

// YearStart converts the numeric year_start_month field.
func (d DetrendConfig) YearStart() time.Month {
	return time.Month(d.YearStartMonth)
}

type siteFileWrapper struct {
	Site SiteConfig `yaml:"site"`
}

func loadSiteFile(path string) (SiteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, err
	}
	var w siteFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SiteConfig{}, err
	}
	return w.Site, nil
}

// MergeSite overlays non-zero fields from override onto base.
func MergeSite(base, override SiteConfig) SiteConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.AreaCells != 0 {
		out.AreaCells = override.AreaCells
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	if override.PerformanceFactor != 0 {
		out.PerformanceFactor = override.PerformanceFactor
	}
	if override.ClientP50 != 0 {
		out.ClientP50 = override.ClientP50
	}
	return out
}

// MergeContract overlays non-zero fields from override onto base. Used to
// apply CLI flag and API request overrides on top of file values.
func MergeContract(base, override ContractConfig) ContractConfig {
	out := base
	if override.Strike != 0 {
		out.Strike = override.Strike
	}
	if override.Exit != 0 {
		out.Exit = override.Exit
	}
	if override.PPA != 0 {
		out.PPA = override.PPA
	}
	if override.BlowPoint != 0 {
		out.BlowPoint = override.BlowPoint
	}
	if override.BlowFactor != 0 {
		out.BlowFactor = override.BlowFactor
	}
	return out
}
