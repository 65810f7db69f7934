package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// The capture utility streams Time(ms),Voltage(V) rows over serial into a
// CSV file. This tool picks up from there: it conditions the recorded
// signal, detects R-peaks, estimates the heart rate and renders charts.
func main() {
	cfg := DefaultConfig()
	var outDir string

	filterFlags := []cli.Flag{
		&cli.Float64Flag{
			Name:        "fs",
			Usage:       "sampling rate of the capture in Hz",
			Value:       cfg.SampleRate,
			Destination: &cfg.SampleRate,
		},
		&cli.Float64Flag{
			Name:        "notch",
			Usage:       "mains interference frequency to reject in Hz",
			Value:       cfg.NotchFreq,
			Destination: &cfg.NotchFreq,
		},
		&cli.Float64Flag{
			Name:        "q",
			Usage:       "notch quality factor, higher means narrower rejection band",
			Value:       cfg.NotchQ,
			Destination: &cfg.NotchQ,
		},
		&cli.Float64Flag{
			Name:        "low",
			Usage:       "bandpass lower cutoff in Hz",
			Value:       cfg.Lowcut,
			Destination: &cfg.Lowcut,
		},
		&cli.Float64Flag{
			Name:        "high",
			Usage:       "bandpass upper cutoff in Hz",
			Value:       cfg.Highcut,
			Destination: &cfg.Highcut,
		},
		&cli.IntFlag{
			Name:        "order",
			Usage:       "Butterworth bandpass order",
			Value:       cfg.Order,
			Destination: &cfg.Order,
		},
		&cli.Float64Flag{
			Name:        "height",
			Usage:       "minimum R-peak amplitude in volts",
			Value:       cfg.PeakHeight,
			Destination: &cfg.PeakHeight,
		},
	}
	outFlag := &cli.StringFlag{
		Name:        "out",
		Aliases:     []string{"o"},
		Usage:       "Directory for rendered charts",
		Value:       ".",
		Destination: &outDir,
	}

	app := &cli.App{
		Name:                 "ecg-process",
		Usage:                "Filter captured ECG recordings, detect R-peaks and estimate heart rate",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "process",
				Aliases:   []string{"p"},
				Usage:     "Run the full pipeline on one or more capture files and write charts",
				ArgsUsage: "FILE...",
				Flags:     append(filterFlags, outFlag),
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() == 0 {
						return fmt.Errorf("no capture files given")
					}
					return AnalyzeFiles(cCtx.Args().Slice(), cfg, outDir)
				},
			},
			{
				Name:      "rate",
				Aliases:   []string{"r"},
				Usage:     "Print the average heart rate of a recording",
				ArgsUsage: "FILE",
				Flags:     filterFlags,
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return fmt.Errorf("expected exactly one capture file")
					}
					_, sig, err := LoadRecording(cCtx.Args().First(), cfg.SampleRate)
					if err != nil {
						return err
					}
					a, err := Analyze(sig, cfg)
					if err != nil {
						return err
					}
					if !a.HeartRateValid {
						fmt.Printf("Heart rate undetermined: %d peak(s) detected\n", len(a.Peaks))
						return nil
					}
					fmt.Printf("Detected Heart Rate: %.2f bpm\n", a.HeartRate)
					return nil
				},
			},
			{
				Name:      "plot",
				Usage:     "Chart a recording exactly as captured, without processing",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:        "fs",
						Usage:       "sampling rate of the capture in Hz",
						Value:       cfg.SampleRate,
						Destination: &cfg.SampleRate,
					},
					outFlag,
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return fmt.Errorf("expected exactly one capture file")
					}
					path := cCtx.Args().First()
					times, sig, err := LoadRecording(path, cfg.SampleRate)
					if err != nil {
						return err
					}
					base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					name := filepath.Join(outDir, base+".html")
					if err := RenderSignal(times, sig, "ECG Signal", name); err != nil {
						return err
					}
					log.Infof("%s: wrote %s", path, name)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
