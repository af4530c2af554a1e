package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	relay "github.com/goliatone/go-relay"
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/httpapi"
	"github.com/goliatone/go-relay/transport"
	"github.com/spf13/cobra"
)

func newSendCmd(root *rootOptions) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Dispatch one event read from a file or stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := loadSettings(root)
			if err != nil {
				return err
			}
			body, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			req, err := httpapi.DecodeEnvelope(body)
			if err != nil {
				return err
			}

			opts := []relay.Option{core.WithConfigProvider(core.NewCfgxConfigProvider(relayConfigLoader(v)))}
			var recorder *transport.DryRunAdapter
			if dryRun {
				recorder = transport.NewDryRunAdapter(nil)
				opts = append(opts, relay.WithTransport(recorder))
			}
			svc, err := relay.New(relay.Config{}, opts...)
			if err != nil {
				return err
			}

			result, dispatchErr := svc.Dispatch(cmd.Context(), req)
			if err := writeResult(cmd.OutOrStdout(), result, recorder); err != nil {
				return err
			}
			return dispatchErr
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "event JSON file, - for stdin")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "record provider calls instead of sending them")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}

func writeResult(out io.Writer, result core.DispatchResult, recorder *transport.DryRunAdapter) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return err
	}
	if recorder == nil {
		return nil
	}
	for _, req := range recorder.Requests() {
		if _, err := fmt.Fprintf(out, "%s %s\n%s\n", req.Method, req.URL, req.Body); err != nil {
			return err
		}
	}
	return nil
}
