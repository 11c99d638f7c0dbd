package report_test

import (
	"testing"

	"github.com/waferlab/mdmreport/internal/report"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.5, "1.5"},
		{0.45, "0.45"},
		{123456.789, "123457"},
		{1234567.0, "1.2346e+06"},
		{0.0005, "5.0000e-04"},
		{1e-13, "1.0000e-13"},
		{-2.5e-14, "-2.5000e-14"},
		{-0.25, "-0.25"},
	}
	for _, c := range cases {
		if got := report.FormatNumber(c.in); got != c.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
