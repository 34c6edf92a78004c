package redis

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/logger"
)

func validOptions() Options {
	return Options{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  50 * time.Millisecond,
		MaxWait:        100 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		DialTimeout:    50 * time.Millisecond,
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"valid", func(*Options) {}, false},
		{"zero connect timeout", func(o *Options) { o.ConnectTimeout = 0 }, true},
		{"zero retry interval", func(o *Options) { o.RetryInterval = 0 }, true},
		{"zero max wait", func(o *Options) { o.MaxWait = 0 }, true},
		{"zero ping timeout", func(o *Options) { o.PingTimeout = 0 }, true},
		{"negative warn threshold", func(o *Options) { o.WarnThreshold = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOptions()
			tt.mutate(&o)
			if err := o.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectGivesUp(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), validOptions(), logger.New("error", false))
	if err == nil {
		t.Fatal("Connect() should fail when nothing listens")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("Connect() ignored its timeout, took %v", time.Since(start))
	}
}
