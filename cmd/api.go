package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the movie service. The token is attached when stored.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	compact := cmd.Bool("json")

	raw, ok := r.api.(rawGetter)
	if !ok {
		return fmt.Errorf("%w: raw requests", shared.ErrNotImplemented)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := raw.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !compact)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
