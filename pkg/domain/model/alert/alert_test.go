package alert_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/utils/clock"
)

func TestNew(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	ctx := clock.With(context.Background(), func() time.Time { return now })

	origin := slack.MessageRef{ChannelID: "C0100", MessageID: "1700000000.000055"}
	a := alert.New(ctx, "GroupA", origin)

	gt.NoError(t, a.ID.Validate())
	gt.V(t, a.Label).Equal("GroupA")
	gt.V(t, a.Origin).Equal(origin)
	gt.V(t, a.CreatedAt).Equal(now)
	gt.False(t, a.Accepted())
}

func TestAcceptOnce(t *testing.T) {
	a := alert.New(context.Background(), "GroupA", slack.MessageRef{
		ChannelID: "C0100", MessageID: "1700000000.000055",
	})

	gt.True(t, a.Accept())
	gt.True(t, a.Accepted())
	gt.False(t, a.Accept())
	gt.True(t, a.Accepted())
}

func TestAcceptConcurrent(t *testing.T) {
	a := alert.New(context.Background(), "GroupA", slack.MessageRef{
		ChannelID: "C0100", MessageID: "1700000000.000055",
	})

	results := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		go func() {
			results <- a.Accept()
		}()
	}

	var wins int
	for i := 0; i < 16; i++ {
		if <-results {
			wins++
		}
	}
	gt.V(t, wins).Equal(1)
}

func TestCancelBeforeBind(t *testing.T) {
	a := alert.New(context.Background(), "GroupA", slack.MessageRef{
		ChannelID: "C0100", MessageID: "1700000000.000055",
	})

	a.Cancel() // no handle bound yet, must not panic

	ctx, cancel := context.WithCancel(context.Background())
	a.BindCancel(cancel)
	a.Cancel()

	select {
	case <-ctx.Done():
	default:
		t.Error("cancel handle was not triggered")
	}

	a.Cancel() // second cancel is a no-op
}
