package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type target struct {
	StudentID    string `json:"studentId"`
	AcademicYear string `json:"academicYear"`
	Critical     bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type monthEntry struct {
	Month       string          `json:"month"`
	BaseFee     decimal.Decimal `json:"base_fee"`
	Discount    decimal.Decimal `json:"discount"`
	LateFee     decimal.Decimal `json:"late_fee"`
	TotalDue    decimal.Decimal `json:"total_due"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status"`
}

type ledgerPayload struct {
	Data struct {
		StudentID string       `json:"student_id"`
		Months    []monthEntry `json:"months"`
	} `json:"data"`
}

type check struct {
	Target     target
	Status     int
	Violations []string
	Error      error
	Duration   time.Duration
}

func main() {
	var (
		base        string
		apiPrefix   string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&apiPrefix, "prefix", "/api/v1", "API route prefix")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "ledger_check", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		checks   []check
		breaking int
		warnings int
	)

	for _, t := range targets {
		c := checkTarget(client, base, apiPrefix, t)
		if c.Error != nil || len(c.Violations) > 0 {
			if t.Critical {
				breaking++
			} else {
				warnings++
			}
		}
		checks = append(checks, c)
	}

	printReport(checks)

	fmt.Printf("Breaking: %d, Warnings: %d\n", breaking, warnings)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func checkTarget(client *http.Client, base, prefix string, tgt target) check {
	c := check{Target: tgt}

	endpoint := fmt.Sprintf("%s%s/finance/students/%s/ledger?academicYear=%s",
		strings.TrimRight(base, "/"), prefix, url.PathEscape(tgt.StudentID), url.QueryEscape(tgt.AcademicYear))
	start := time.Now()
	resp, err := client.Get(endpoint)
	c.Duration = time.Since(start)
	if err != nil {
		c.Error = fmt.Errorf("request failed: %w", err)
		return c
	}
	defer resp.Body.Close()

	c.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Error = fmt.Errorf("read body: %w", err)
		return c
	}
	if resp.StatusCode != http.StatusOK {
		c.Error = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return c
	}

	var payload ledgerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.Error = fmt.Errorf("decode ledger: %w", err)
		return c
	}

	c.Violations = verifyLedger(payload)
	return c
}

// verifyLedger re-derives each month's arithmetic from its components and
// flags any row where the server's figures disagree.
func verifyLedger(payload ledgerPayload) []string {
	var violations []string

	months := payload.Data.Months
	if len(months) != 12 {
		violations = append(violations, fmt.Sprintf("expected 12 months, got %d", len(months)))
	}

	for _, m := range months {
		net := m.BaseFee.Sub(m.Discount)
		if net.IsNegative() {
			net = decimal.Zero
		}
		wantDue := net.Add(m.LateFee)
		if !m.TotalDue.Equal(wantDue) {
			violations = append(violations, fmt.Sprintf("%s: total_due %s, derived %s", m.Month, m.TotalDue, wantDue))
		}
		wantOutstanding := m.TotalDue.Sub(m.TotalPaid)
		if !m.Outstanding.Equal(wantOutstanding) {
			violations = append(violations, fmt.Sprintf("%s: outstanding %s, derived %s", m.Month, m.Outstanding, wantOutstanding))
		}
		if m.Status == "PAID" && m.Outstanding.IsPositive() {
			violations = append(violations, fmt.Sprintf("%s: status PAID with outstanding %s", m.Month, m.Outstanding))
		}
		if m.Status == "PAID" && !m.LateFee.IsZero() {
			violations = append(violations, fmt.Sprintf("%s: status PAID with late fee %s", m.Month, m.LateFee))
		}
	}

	return violations
}

func printReport(results []check) {
	fmt.Println("Ledger Check Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if len(res.Violations) > 0 {
			status = "VIOLATION"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.StudentID, res.Target.AcademicYear)
		fmt.Printf("  HTTP Status: %d (%s)\n", res.Status, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		for _, v := range res.Violations {
			fmt.Printf("  - %s\n", v)
		}
	}
}
