package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"solar-risk/internal/config"
	"solar-risk/internal/data"
	"solar-risk/internal/detrend"
	"solar-risk/internal/model"
	"solar-risk/internal/payout"
	"solar-risk/internal/pipeline"
	"solar-risk/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "annual":
		cmdAnnual(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run [flags] <readings.csv>")
	fmt.Println("  cli annual [flags] <readings.csv>")
	fmt.Println("")
	fmt.Println("run flags:")
	fmt.Println("  --config PATH       YAML config (defaults used when omitted)")
	fmt.Println("  --method NAME       detrending method: linear, kernel, none")
	fmt.Println("  --bw F              kernel bandwidth in years")
	fmt.Println("  --start YEAR        first generation year")
	fmt.Println("  --end YEAR          last generation year")
	fmt.Println("  --strike F          contract strike (MWh)")
	fmt.Println("  --exit F            contract exit (MWh)")
	fmt.Println("  --ppa F             PPA price per MWh")
	fmt.Println("  --blow-point F      blow transform pivot (MWh)")
	fmt.Println("  --blow-factor F     blow transform factor (percent)")
	fmt.Println("  --sobol PATH        uniform-sample CSV for expected loss")
	fmt.Println("  --out DIR           output directory for CSV and plots")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run prices both the raw and detrended annual series")
	fmt.Println("  - annual prints the generation-year energy table")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	method := fs.String("method", "", "Detrending method")
	bw := fs.Float64("bw", 0, "Kernel bandwidth in years")
	start := fs.Int("start", 0, "First generation year")
	end := fs.Int("end", 0, "Last generation year")
	strike := fs.Float64("strike", 0, "Contract strike (MWh)")
	exit := fs.Float64("exit", 0, "Contract exit (MWh)")
	ppa := fs.Float64("ppa", 0, "PPA price per MWh")
	blowPoint := fs.Float64("blow-point", 0, "Blow transform pivot (MWh)")
	blowFactor := fs.Float64("blow-factor", 0, "Blow transform factor (percent)")
	sobolPath := fs.String("sobol", "", "Uniform-sample CSV for expected loss")
	outDir := fs.String("out", "results", "Output directory")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "run: exactly one readings CSV is required")
		os.Exit(2)
	}
	dataPath := fs.Arg(0)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fail(err)
	}

	// CLI flags override file values field by field.
	cfg.Contract = config.MergeContract(cfg.Contract, config.ContractConfig{
		Strike:     *strike,
		Exit:       *exit,
		PPA:        *ppa,
		BlowPoint:  *blowPoint,
		BlowFactor: *blowFactor,
	})
	if *method != "" {
		cfg.Detrend.Method = *method
	}
	if *bw != 0 {
		cfg.Detrend.Bandwidth = *bw
	}
	if *start != 0 {
		cfg.Detrend.StartYear = *start
	}
	if *end != 0 {
		cfg.Detrend.EndYear = *end
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	readings, err := data.ReadSolarCSV(dataPath)
	if err != nil {
		fail(err)
	}

	opts := pipeline.Options{
		Site:           cfg.Site.ToModelParams(),
		Contract:       cfg.Contract.ToModelParams(),
		Method:         cfg.Detrend.Method,
		Bandwidth:      cfg.Detrend.Bandwidth,
		StartYear:      cfg.Detrend.StartYear,
		EndYear:        cfg.Detrend.EndYear,
		YearStartMonth: cfg.Detrend.YearStart(),
	}
	if *sobolPath != "" {
		uniforms, err := payout.ReadUniformCSV(*sobolPath)
		if err != nil {
			fail(err)
		}
		opts.Uniforms = uniforms
	}

	res, err := pipeline.Run(readings, opts)
	if err != nil {
		fail(err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fail(err)
	}
	ledgerPath := filepath.Join(*outDir, "ledger.csv")
	if err := report.WriteLedgerCSV(ledgerPath, res.Trend, res.Ledger); err != nil {
		fail(err)
	}
	annualPath := filepath.Join(*outDir, "annual.csv")
	if err := report.WriteAnnualCSV(annualPath, res.Annual); err != nil {
		fail(err)
	}
	plots, err := report.RenderAll(*outDir, res.Trend, res.Ledger, res.Seasonality, res.Gamma, opts.Contract)
	if err != nil {
		fail(err)
	}

	printRun(res, opts.Contract)
	fmt.Printf("\nWrote %s, %s and %d plots to %s\n",
		filepath.Base(ledgerPath), filepath.Base(annualPath), len(plots), *outDir)
}

func cmdAnnual(args []string) {
	fs := flag.NewFlagSet("annual", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "annual: exactly one readings CSV is required")
		os.Exit(2)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fail(err)
	}

	readings, err := data.ReadSolarCSV(fs.Arg(0))
	if err != nil {
		fail(err)
	}

	res, err := pipeline.Run(readings, pipeline.Options{
		Site:           cfg.Site.ToModelParams(),
		Contract:       cfg.Contract.ToModelParams(),
		Method:         cfg.Detrend.Method,
		Bandwidth:      cfg.Detrend.Bandwidth,
		StartYear:      cfg.Detrend.StartYear,
		EndYear:        cfg.Detrend.EndYear,
		YearStartMonth: cfg.Detrend.YearStart(),
	})
	if err != nil {
		fail(err)
	}

	fmt.Printf("%-6s %-14s %-14s\n", "year", "energy_mwh", "rescaled_mwh")
	for _, row := range res.Annual {
		fmt.Printf("%-6d %-14.2f %-14.2f\n", row.Year, row.EnergyMWh, row.RescaledMWh)
	}
	fmt.Printf("\nyears=%d mean=%.2f p05=%.2f p95=%.2f spread=%.2f\n",
		res.Summary.Years,
		res.Summary.MeanMWh,
		res.Summary.P05MWh,
		res.Summary.P95MWh,
		res.Summary.SpreadP95P05,
	)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func printRun(res *pipeline.Result, contract model.ContractParams) {
	fmt.Printf("Years %d..%d (%d generation years)\n",
		res.Summary.StartYear, res.Summary.EndYear, res.Summary.Years)
	fmt.Printf("Annual energy: mean=%.2f min=%.2f max=%.2f MWh\n",
		res.Summary.MeanMWh, res.Summary.MinMWh, res.Summary.MaxMWh)
	fmt.Printf("Payout limit: %.2f\n", contract.PayoutLimit())
	fmt.Printf("Burn cost:  5y=%.2f  10y=%.2f  20y=%.2f  all=%.2f\n",
		res.BurnCost5, res.BurnCost10, res.BurnCost20, res.BurnCostAll)
	fmt.Printf("Gamma fit: shape=%.4f scale=%.4f\n", res.Gamma.Shape, res.Gamma.Scale)
	if res.HasExpectedLoss {
		fmt.Printf("Expected loss: %.2f\n", res.ExpectedLoss)
	}
}

// fail prints recognizable input errors tersely and exits non-zero.
func fail(err error) {
	var formatErr *data.FormatError
	var contractErr *model.InvalidContractParamsError
	switch {
	case errors.As(err, &formatErr):
		fmt.Fprintf(os.Stderr, "dataset error: %v\n", err)
	case errors.As(err, &contractErr):
		fmt.Fprintf(os.Stderr, "contract error: %v\n", err)
	case errors.Is(err, detrend.ErrUnknownMethod),
		errors.Is(err, detrend.ErrInvalidBandwidth):
		fmt.Fprintf(os.Stderr, "detrend error: %v\n", err)
	case errors.Is(err, pipeline.ErrEmptyWindow):
		fmt.Fprintf(os.Stderr, "window error: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
