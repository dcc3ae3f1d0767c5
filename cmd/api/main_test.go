package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/MdFayaz7/portfolio1/internal/config"
	"github.com/MdFayaz7/portfolio1/internal/notify"
)

func TestNewNotifierSelection(t *testing.T) {
	mr := miniredis.RunT(t)
	silent := slog.New(slog.NewTextHandler(io.Discard, nil))
	creds := config.MailConfig{Host: "smtp.example.com", Port: 587, User: "me@example.com", Password: "app-pass"}

	tests := []struct {
		name       string
		mail       config.MailConfig
		dispatch   string
		wantType   any
		wantInline bool
	}{
		{name: "queue without credentials is discarded", dispatch: "queue", wantType: notify.Discard{}},
		{name: "inline without credentials is discarded", dispatch: "inline", wantType: notify.Discard{}},
		{name: "queue with credentials", mail: creds, dispatch: "queue", wantType: &notify.Queue{}},
		{name: "inline with credentials", mail: creds, dispatch: "inline", wantType: &notify.Inline{}, wantInline: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Mail: tt.mail, Redis: config.RedisConfig{Addr: mr.Addr()}}
			cfg.Mail.Dispatch = tt.dispatch

			n, inline, closeFn := newNotifier(cfg, silent)
			defer closeFn()

			assert.IsType(t, tt.wantType, n)
			assert.Equal(t, tt.wantInline, inline != nil)
		})
	}
}
