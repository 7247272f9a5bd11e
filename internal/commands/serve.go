package commands

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/server"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr       string
	inputs     map[string]string
	origins    []string
	minImpact  float64
	noProgress bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations and the action compiler over HTTP",
	Long: `Load the configured billing exports once and serve them over HTTP:

  GET  /health
  GET  /recommendations?provider=aws
  POST /actions/compile   (YAML body)

Inputs come from .cloudshift.yaml and may be overridden with --input provider=path.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", server.DefaultAddr, "Listen address")
	serveCmd.Flags().StringToStringVar(&serveFlags.inputs, "input", nil, "Billing export per provider, e.g. aws=costs.csv")
	serveCmd.Flags().StringSliceVar(&serveFlags.origins, "cors-origin", []string{"*"}, "Allowed CORS origins")
	serveCmd.Flags().Float64Var(&serveFlags.minImpact, "min-impact", 0, "Minimum monthly impact to report ($)")
	serveCmd.Flags().BoolVar(&serveFlags.noProgress, "no-progress", false, "Disable progress output")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveFlags.addr == server.DefaultAddr && cfg.Addr != "" {
		serveFlags.addr = cfg.Addr
	}
	if serveFlags.minImpact == 0 && cfg.MinImpact > 0 {
		serveFlags.minImpact = cfg.MinImpact
	}

	inputs, err := cfg.ProviderInputs()
	if err != nil {
		return err
	}
	for k, loc := range serveFlags.inputs {
		p, err := billing.ParseProvider(k)
		if err != nil {
			return enhanceError("parse --input", err)
		}
		inputs[p] = loc
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items := make(map[billing.Provider][]billing.CostItem, len(inputs))
	if len(inputs) > 0 {
		result, err := loadInputs(ctx, inputs, !serveFlags.noProgress)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "warning: %s\n", e)
		}
		for p, batch := range result.Batches {
			items[p] = excludeItems(batch.Items, cfg.Exclude)
		}
	}

	router := server.NewRouter(server.Options{
		Version:        version,
		Items:          items,
		MinImpact:      serveFlags.minImpact,
		AllowedOrigins: serveFlags.origins,
	})

	addr := server.Addr(serveFlags.addr)
	fmt.Fprintf(os.Stderr, "cloudshift API on http://localhost%s (%d provider(s) loaded, Ctrl+C to stop)\n", displayPort(addr), len(items))
	start := time.Now()
	if err := server.Run(ctx, addr, router); err != nil {
		return enhanceError("serve API", err)
	}
	fmt.Fprintf(os.Stderr, "stopped after %s\n", time.Since(start).Round(time.Second))
	return nil
}

func displayPort(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return ":" + port
	}
	return addr
}
