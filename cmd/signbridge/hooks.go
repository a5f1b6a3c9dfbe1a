package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/signbridge/internal/hook"
	"github.com/ayusman/signbridge/internal/speech"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "List installed hooks",
	Long: `List the hooks found in the hooks directory (SIGNBRIDGE_HOOKS_DIR) with
the events each one subscribes to.`,
	Args: cobra.NoArgs,
	RunE: runHooksList,
}

var hooksTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Send one event to a hook and print its response",
	Long: `Run a single hook once, the same way the server does.
By default a speech event is sent for --text, resolved through the clip
mapping. With --gesture a gesture event is sent instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runHooksTest,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksTestCmd)

	hooksTestCmd.Flags().String("text", "hello", "Text for a speech event")
	hooksTestCmd.Flags().String("gesture", "", "Send a gesture event for this gesture instead")
}

func runHooksList(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	manager := hook.NewManager(cfg.HooksDir)
	if err := manager.Discover(); err != nil {
		return fmt.Errorf("discover hooks: %w", err)
	}
	printHooks(cmd.OutOrStdout(), manager)
	return nil
}

func printHooks(w io.Writer, m *hook.Manager) {
	hooks := m.List()
	if len(hooks) == 0 {
		fmt.Fprintf(w, "No hooks in %s\n", m.Dir())
		return
	}

	fmt.Fprintf(w, "Hooks in %s:\n", m.Dir())
	for _, h := range hooks {
		timeout := "default"
		if h.Timeout > 0 {
			timeout = h.Timeout.String()
		}
		fmt.Fprintf(w, "  %-16s %-8s events=%s timeout=%s\n",
			h.Manifest.Name, h.Manifest.Version, strings.Join(h.Manifest.Events, ","), timeout)
	}
}

func runHooksTest(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	manager := hook.NewManager(cfg.HooksDir)
	if err := manager.Discover(); err != nil {
		return fmt.Errorf("discover hooks: %w", err)
	}

	req := hook.Request{Event: hook.EventSpeech, Timestamp: time.Now()}
	if g := mustGetString(cmd, "gesture"); g != "" {
		req.Event = hook.EventGesture
		req.Gesture = g
		req.Confidence = 100
	} else {
		text := mustGetString(cmd, "text")
		clips, err := loadResolver(cfg, nil, log).Resolve(text)
		if err != nil {
			return err
		}
		req.Text = speech.Normalize(text)
		req.Clips = clips
	}

	return testHook(cmd, manager, hook.NewExecutor(cfg.HookTimeout), args[0], req)
}

// testHook runs the named hook once and prints its response.
func testHook(cmd *cobra.Command, m *hook.Manager, e *hook.Executor, name string, req hook.Request) error {
	h, err := m.Get(name)
	if errors.Is(err, hook.ErrHookNotFound) {
		return fmt.Errorf("no hook named %q in %s", name, m.Dir())
	}
	if err != nil {
		return err
	}
	if !h.Wants(req.Event) {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s does not subscribe to %s events\n", name, req.Event)
	}

	resp, err := e.Execute(cmd.Context(), h, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !resp.Success {
		return fmt.Errorf("hook %s reported failure: %s", name, resp.Error)
	}
	fmt.Fprintf(out, "%s: ok\n", name)
	if len(resp.Data) > 0 {
		fmt.Fprintf(out, "%s\n", resp.Data)
	}
	return nil
}
