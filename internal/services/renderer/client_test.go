package renderer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/usr/local/bin/remotion"))
	if cli.binary != "/usr/local/bin/remotion" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestCLIRenderRequiresInput(t *testing.T) {
	cli := NewCLI()
	if err := cli.Render(context.Background(), "", "/tmp/out.mp4", nil); err == nil {
		t.Fatal("expected error when input path is empty")
	}
}

func TestCLIRenderRequiresOutput(t *testing.T) {
	cli := NewCLI()
	if err := cli.Render(context.Background(), "/tmp/input.json", "", nil); err == nil {
		t.Fatal("expected error when output path is empty")
	}
}

func TestCLIRenderAppendsPaths(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RENDERER_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI(WithArgs([]string{"remotion", "render", "Shorts"}))
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "render_input.json")
	output := filepath.Join(tempDir, "video.mp4")

	if err := cli.Render(context.Background(), input, output, nil); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	want := []string{"remotion", "render", "Shorts", input, output}
	if len(capturedArgs) != len(want) {
		t.Fatalf("expected args %v, got %v", want, capturedArgs)
	}
	for i := range want {
		if capturedArgs[i] != want[i] {
			t.Fatalf("expected args %v, got %v", want, capturedArgs)
		}
	}
}

func TestCLIRenderStreamsProgress(t *testing.T) {
	setHelperCommand(t, "success")

	cli := NewCLI()
	tempDir := t.TempDir()

	var updates []int
	err := cli.Render(context.Background(), filepath.Join(tempDir, "input.json"), filepath.Join(tempDir, "video.mp4"), func(percent int) {
		updates = append(updates, percent)
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	want := []int{10, 50, 99}
	if len(updates) != len(want) {
		t.Fatalf("expected updates %v, got %v", want, updates)
	}
	for i := range want {
		if updates[i] != want[i] {
			t.Fatalf("expected updates %v, got %v", want, updates)
		}
	}
}

func TestCLIRenderIgnoresPlainLines(t *testing.T) {
	setHelperCommand(t, "chatter")

	cli := NewCLI()
	tempDir := t.TempDir()

	var updates []int
	err := cli.Render(context.Background(), filepath.Join(tempDir, "input.json"), filepath.Join(tempDir, "video.mp4"), func(percent int) {
		updates = append(updates, percent)
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected one progress update, got %v", updates)
	}
	if updates[0] != 42 {
		t.Fatalf("expected 42 percent, got %d", updates[0])
	}
}

func TestCLIRenderFailure(t *testing.T) {
	setHelperCommand(t, "failure")

	cli := NewCLI()
	tempDir := t.TempDir()

	if err := cli.Render(context.Background(), filepath.Join(tempDir, "input.json"), filepath.Join(tempDir, "video.mp4"), nil); err == nil {
		t.Fatal("expected render failure error")
	}
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("RENDERER_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("RENDERER_HELPER_MODE") {
	case "success":
		fmt.Println("Rendering frames 10%")
		fmt.Println("Rendering frames 50%")
		fmt.Println("480/480 frames rendered")
		os.Exit(0)
	case "chatter":
		fmt.Println("Bundling project...")
		fmt.Println("Compiling entry point")
		fmt.Println("Rendering 42%")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "render failed: composition not found")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
