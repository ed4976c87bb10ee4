package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/auragophers/aurago/internal/common"
	"github.com/auragophers/aurago/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the backend.
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.account.Login(ctx, email, string(password))
	if err != nil {
		printlnFn("Login failed:", err)
		return err
	}

	a.user = user
	printlnFn("Logged in as", user.Email)
	return nil
}

// Logout drops the session. The transport keeps its headers until the
// next login, but the REPL falls back to the logged-out command set.
func (a *App) Logout(ctx context.Context) error {
	a.user = nil
	a.frameList = nil
	return nil
}

// Frames lists the account's frames, served from the response cache
// when one exists. Positions printed here are accepted by the other
// commands in place of frame ids.
func (a *App) Frames(ctx context.Context) error {
	var frames []models.Frame
	err := a.store.GetOrFill("frames", &frames, func() (any, error) {
		return a.frames.GetFrames(ctx)
	})
	if err != nil {
		return err
	}

	a.frameList = frames
	for i, f := range frames {
		orientation := "landscape"
		if f.IsPortrait() {
			orientation = "portrait"
		}
		printlnFn(fmt.Sprintf("%d: %s (%s, %s, type %s)", i+1, f.Name, f.ID, orientation, f.FrameTypeLabel()))
	}
	if len(frames) == 0 {
		printlnFn("No frames on this account")
	}
	return nil
}

// Assets lists every asset on a frame, walking the full cursor chain.
func (a *App) Assets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: assets <frame>")
		return nil
	}
	frame, err := a.resolveFrame(ctx, args[0])
	if err != nil {
		return err
	}

	list, err := a.pager.All(ctx, frame.ID)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("%d assets on %s", len(list), frame.Name))
	for _, asset := range list {
		printlnFn(fmt.Sprintf("  %s  %s", asset.TakenAt, asset.FileName))
	}
	return nil
}

// Upload publishes a local file onto a frame and reports the assigned
// remote id.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: upload <frame> <file>")
		return nil
	}
	frame, err := a.resolveFrame(ctx, args[0])
	if err != nil {
		return err
	}

	path := args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	asset, err := a.saga.Upload(ctx, frame, data, filepath.Ext(path), "")
	if err != nil {
		printlnFn("Upload failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Uploaded %s to %s as asset %s", filepath.Base(path), frame.Name, *asset.ID))
	return nil
}

// Export downloads every original on a frame into a local directory
// (default "exports/<frame-id>").
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: export <frame> [dir]")
		return nil
	}
	frame, err := a.resolveFrame(ctx, args[0])
	if err != nil {
		return err
	}

	dir := filepath.Join("exports", frame.ID)
	if len(args) > 1 {
		dir = args[1]
	}

	list, err := a.pager.All(ctx, frame.ID)
	if err != nil {
		return err
	}

	exported := 0
	for i := range list {
		if _, _, err := a.exporter.Original(ctx, &list[i], dir); err != nil {
			a.log.Warn(ctx, "skipping asset", "file_name", list[i].FileName, "error", err)
			continue
		}
		exported++
	}

	printlnFn(fmt.Sprintf("Exported %d of %d assets to %s", exported, len(list), dir))
	return nil
}

// resolveFrame turns a command argument into a frame: a small number is
// a position in the last `frames` listing, anything else is a frame id.
func (a *App) resolveFrame(ctx context.Context, arg string) (*models.Frame, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(a.frameList) {
			return nil, fmt.Errorf("no frame at position %d, run `frames` first", n)
		}
		return &a.frameList[n-1], nil
	}

	frame, _, err := a.frames.GetFrame(ctx, arg)
	return frame, err
}
