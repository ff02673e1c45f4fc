package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	pb "github.com/schollz/progressbar/v3"
)

type writerKey struct{}

// Open makes progress bars created from ctx render to w. Without it every
// bar is a no-op, which is what tests and non-terminal output get.
func Open(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, writerKey{}, w)
}

type Progress struct {
	bar    *pb.ProgressBar
	prefix string
}

func (t *Progress) Tick() {
	if t.bar == nil {
		return
	}

	t.bar.Add(1)
}

// On shows what is being worked on next to the bar.
func (t *Progress) On(step string) {
	if t.bar == nil {
		return
	}

	t.bar.Describe(t.prefix + ": " + step)
}

func (t *Progress) Close() {
	if t.bar == nil {
		return
	}

	t.bar.Finish()
}

func Count(ctx context.Context, total int64, desc string) *Progress {
	w, ok := ctx.Value(writerKey{}).(io.Writer)
	if !ok || total == 0 {
		return &Progress{}
	}

	bar := pb.NewOptions64(
		total,
		pb.OptionSetDescription(desc),
		pb.OptionSetWriter(w),
		pb.OptionSetWidth(30),
		pb.OptionThrottle(65*time.Millisecond),
		pb.OptionShowCount(),
		pb.OptionSetTheme(
			pb.Theme{Saucer: "#", SaucerPadding: ".", BarStart: "[", BarEnd: "]"},
		),
		pb.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
	bar.RenderBlank()

	return &Progress{prefix: desc, bar: bar}
}
