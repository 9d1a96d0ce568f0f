package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stock-console/internal/console"
	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/progress"
	"github.com/ziadkadry99/stock-console/internal/render"
	"github.com/ziadkadry99/stock-console/internal/storage"
	"github.com/ziadkadry99/stock-console/internal/views"
)

var (
	smokeToken string
	smokeID    int
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Render every console route against the configured API",
	Long: `Opens a headless page session with the given credential, lands on the
role's home route and then navigates to every registered route, reporting
the routes that fail to render.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if smokeToken == "" {
			smokeToken = os.Getenv("STOCKCONSOLE_TOKEN")
		}
		if smokeToken == "" {
			return fmt.Errorf("a credential is required: pass --token or set STOCKCONSOLE_TOKEN")
		}
		timeout, err := cfg.Timeout()
		if err != nil {
			return err
		}

		c := console.New(console.Config{
			APIBaseURL:     cfg.APIBaseURL,
			LoginURL:       cfg.LoginURL,
			LowStock:       cfg.LowStockThreshold,
			RequestTimeout: timeout,
			Logger:         newLogger(cfg.Level()),
		})
		rec := &dom.Recorder{}
		page := c.NewPage("smoke", rec)
		defer page.Wait()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := page.Handle(ctx, console.Message{
			Type:    console.MsgHello,
			Storage: map[string]string{storage.KeyToken: smokeToken},
		}); err != nil {
			return err
		}
		if r, ok := rec.Last(dom.OpRedirect); ok {
			return fmt.Errorf("credential rejected: redirected to %s", r.URL)
		}

		keys := page.Routes().Keys()
		reporter := progress.NewReporter(os.Stderr)
		reporter.Start(len(keys))

		var failed []string
		for i, key := range keys {
			v, _ := page.Routes().Lookup(key)
			id := 0
			if v.NeedsID {
				id = smokeID
			}
			hash := views.Hash(key, id)
			reporter.Update(i+1, hash)
			if err := page.Router().Navigate(ctx, hash); err != nil && !errors.Is(err, render.ErrStale) {
				failed = append(failed, fmt.Sprintf("%s: %v", hash, err))
			}
		}
		reporter.Finish()

		if len(failed) > 0 {
			return fmt.Errorf("%d of %d routes failed:\n  %s", len(failed), len(keys), strings.Join(failed, "\n  "))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "All %d routes rendered\n", len(keys))
		return nil
	},
}

func init() {
	smokeCmd.Flags().StringVar(&smokeToken, "token", "", "session credential (default $STOCKCONSOLE_TOKEN)")
	smokeCmd.Flags().IntVar(&smokeID, "id", 1, "entity id used for detail routes")
	rootCmd.AddCommand(smokeCmd)
}
