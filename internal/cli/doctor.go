package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// doctorReport mirrors the server's health payloads.
type doctorReport struct {
	BaseURL string        `json:"base_url"`
	Live    bool          `json:"live"`
	Ready   bool          `json:"ready"`
	Checks  []doctorCheck `json:"checks,omitempty"`
}

type doctorCheck struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func newDoctorCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity and server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Health endpoints live next to /api, not under it.
			base := strings.TrimSuffix(strings.TrimSuffix(rt.cfg.APIBaseURL, "/"), "/api")
			httpc := &http.Client{Timeout: 10 * time.Second}

			report := doctorReport{BaseURL: base}

			live, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, base+"/health/live", nil)
			if err != nil {
				return err
			}
			if resp, err := httpc.Do(live); err == nil {
				resp.Body.Close()
				report.Live = resp.StatusCode == http.StatusOK
			}

			readyReq, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, base+"/health/ready", nil)
			if err != nil {
				return err
			}
			if resp, err := httpc.Do(readyReq); err == nil {
				// Checks sit under data on success, under error.details on 503.
				var envelope struct {
					Data struct {
						Checks []doctorCheck `json:"checks"`
					} `json:"data"`
					Error struct {
						Details struct {
							Checks []doctorCheck `json:"checks"`
						} `json:"details"`
					} `json:"error"`
				}
				_ = json.NewDecoder(resp.Body).Decode(&envelope)
				resp.Body.Close()
				report.Ready = resp.StatusCode == http.StatusOK
				report.Checks = envelope.Data.Checks
				if len(report.Checks) == 0 {
					report.Checks = envelope.Error.Details.Checks
				}
			}

			err = emit(rt, report, func() {
				fmt.Printf("server:    %s\n", base)
				fmt.Printf("liveness:  %s\n", okMark(report.Live))
				fmt.Printf("readiness: %s\n", okMark(report.Ready))
				for _, check := range report.Checks {
					line := okMark(check.OK)
					if check.Error != "" {
						line += "  " + check.Error
					}
					fmt.Printf("  %-10s %s\n", check.Name, line)
				}
			})
			if err != nil {
				return err
			}
			if !report.Live || !report.Ready {
				return fmt.Errorf("server at %s is not healthy", base)
			}
			return nil
		},
	}
}

func okMark(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
