package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"evently/internal/app"
	"evently/internal/events"
	"evently/internal/guard"
	"evently/internal/shared/config"
	"evently/pkg/logger"
)

type SmokeResult struct {
	Check    string        `json:"check"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

type SmokeSuite struct {
	app     *app.App
	out     io.Writer
	Results []SmokeResult
}

func main() {
	_ = godotenv.Load()

	report := pflag.String("report", "", "write the results as JSON to this file")
	pflag.Parse()

	cfg := config.Load()
	cfg.Session.Store = config.SessionStoreMemory

	a, err := app.New(context.Background(), cfg, app.Options{Logger: logger.NewWithOutput(os.Stderr, cfg.LogLevel, false)})
	if err != nil {
		log.Fatalf("❌ Failed to initialize client: %v", err)
	}
	defer a.Close()

	fmt.Printf("🧪 Smoke testing %s\n", cfg.GetAPIBaseURL())
	fmt.Println("===================================")

	suite := &SmokeSuite{app: a, out: os.Stdout}
	suite.Run(context.Background())
	suite.generateReport(*report)

	if suite.Failed() > 0 {
		os.Exit(1)
	}
}

// Run walks the anonymous paths a visitor takes: home, browse, then the
// sign-in views
func (s *SmokeSuite) Run(ctx context.Context) {
	if s.app.Cache != nil {
		s.check("Redis ping", func() error { return s.app.Cache.Ping(ctx) })
	}

	s.check("Home: featured events", func() error {
		_, err := s.app.Events.FetchFeatured(ctx)
		return err
	})
	s.check("Home: upcoming events", func() error {
		_, err := s.app.Events.FetchUpcoming(ctx, events.ListParams{Size: 6})
		return err
	})

	var first string
	s.check("Browse events", func() error {
		page, err := s.app.Events.Fetch(ctx, events.ListParams{})
		if err != nil {
			return err
		}
		if items := page.Items(); len(items) > 0 {
			first = items[0].ID
		}
		return nil
	})
	if first != "" {
		s.check("Event detail", func() error {
			_, err := s.app.Events.Get(ctx, first)
			return err
		})
	}

	for _, path := range []string{guard.PathEvents, guard.PathLogin, guard.PathRegister} {
		s.check("Route "+path, func() error {
			res, err := s.app.Routes.Navigate(s.app.Session, s.app.History, path)
			if err != nil {
				return err
			}
			if res.Decision != guard.Allow {
				return fmt.Errorf("navigation ended in %s", res.Decision)
			}
			return nil
		})
	}
	s.check("Route /dashboard sends visitors to login", func() error {
		res, err := s.app.Routes.Resolve(s.app.Session, guard.PathDashboard)
		if err != nil {
			return err
		}
		if res.Decision != guard.RedirectLogin {
			return errors.New("dashboard was not guarded")
		}
		return nil
	})
}

func (s *SmokeSuite) check(name string, fn func() error) {
	start := time.Now()
	err := fn()
	result := SmokeResult{Check: name, Duration: time.Since(start), Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	s.Results = append(s.Results, result)

	statusIcon := "✅"
	if !result.Success {
		statusIcon = "❌"
	}
	fmt.Fprintf(s.out, "   %s %s %v\n", statusIcon, name, result.Duration)
	if err != nil {
		fmt.Fprintf(s.out, "      %s\n", err)
	}
}

// Failed counts failed checks
func (s *SmokeSuite) Failed() int {
	n := 0
	for _, r := range s.Results {
		if !r.Success {
			n++
		}
	}
	return n
}

func (s *SmokeSuite) generateReport(path string) {
	fmt.Fprintln(s.out, "\n📊 SMOKE REPORT")
	fmt.Fprintln(s.out, "==========================")

	total := len(s.Results)
	var elapsed time.Duration
	for _, r := range s.Results {
		elapsed += r.Duration
	}
	fmt.Fprintf(s.out, "Total Checks: %d\n", total)
	fmt.Fprintf(s.out, "Failed: %d\n", s.Failed())
	fmt.Fprintf(s.out, "Total Time: %v\n", elapsed)

	if path == "" {
		return
	}
	data, err := json.MarshalIndent(map[string]interface{}{
		"summary": map[string]interface{}{
			"total_checks":  total,
			"failed_checks": s.Failed(),
		},
		"results": s.Results,
	}, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		fmt.Fprintf(s.out, "❌ Failed to write report: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "\n💾 Detailed results saved to %s\n", path)
}
