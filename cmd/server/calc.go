package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/saju-engine/factory"
	"github.com/warp/saju-engine/location"
	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/saju"
)

type calcFlags struct {
	date     string
	hour     string
	gender   string
	location string
	asJSON   bool
}

func newCalcCmd(rf *rootFlags) *cobra.Command {
	var cf calcFlags
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate one chart",
		Example: `  server calc --date=1990-01-15 --hour=13:00 --gender=M --location="Tokyo, Japan"
  server calc --date=1950-07-01 --hour=12.5 --gender=F --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			logger, err := cfg.Log.Build(rf.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			in, err := cf.input()
			if err != nil {
				return err
			}
			res, err := newCalculator(cfg, logger).CalculateInput(in)
			if err != nil {
				return err
			}
			if cf.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printChart(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cf.date, "date", "d", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cf.hour, "hour", "", "Birth time as HH:MM[:SS] or decimal hours")
	cmd.Flags().StringVarP(&cf.gender, "gender", "g", "M", "Gender (M or F)")
	cmd.Flags().StringVarP(&cf.location, "location", "l", "", "Birthplace (default: configured default location)")
	cmd.Flags().BoolVar(&cf.asJSON, "json", false, "Print the full result as JSON")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("hour")
	return cmd
}

func (cf calcFlags) input() (saju.Input, error) {
	date, err := time.Parse("2006-01-02", cf.date)
	if err != nil {
		return saju.Input{}, &saju.InputError{Field: "birthDate", Value: cf.date, Reason: "expected YYYY-MM-DD"}
	}
	hour, err := parseHour(cf.hour)
	if err != nil {
		return saju.Input{}, &saju.InputError{Field: "birthHour", Value: cf.hour, Reason: err.Error()}
	}
	gender, err := saju.ParseGender(cf.gender)
	if err != nil {
		return saju.Input{}, err
	}
	in := saju.Input{BirthDate: date, BirthHour: hour, Gender: gender}
	if cf.location != "" {
		in.Location = location.ByName(cf.location)
	}
	return in, in.Validate()
}

func parseHour(s string) (float64, error) {
	if strings.Contains(s, ":") {
		return factory.ParseClock(s)
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func printChart(w io.Writer, res *saju.Result) {
	fp := res.FourPillars
	fmt.Fprintf(w, "Pillars:   %s %s %s %s\n",
		fp[pillars.Year].Label(), fp[pillars.Month].Label(), fp[pillars.Day].Label(), fp[pillars.Hour].Label())
	fmt.Fprintf(w, "Day master: %s\n", res.DayMaster())

	loc := res.Location.Name
	if loc == "" {
		loc = string(res.Location.Kind)
	}
	d := res.TimezoneInfo.Details
	fmt.Fprintf(w, "Location:  %s\n", loc)
	fmt.Fprintf(w, "Adjusted:  %s (longitude %+d, dst %+d, regional %+d)\n",
		res.ProcessedDateTime.Format("2006-01-02 15:04:05"),
		d.LongitudeBasedAdjustment, d.DSTAdjustment, d.RegionalAdjustment)
	fmt.Fprintf(w, "Pattern:   %s (%s)\n", res.Kakukyoku.Type, res.Kakukyoku.Strength)
	fmt.Fprintf(w, "Yojin:     %s %s\n", res.Yojin.TenGod, res.Yojin.Element)

	labels := make([]string, len(res.Luck.Pillars))
	for i, p := range res.Luck.Pillars {
		labels[i] = p.Label
	}
	fmt.Fprintf(w, "Luck:      from age %s: %s\n", res.Luck.StartAge.StringFixed(1), strings.Join(labels, " "))
}
