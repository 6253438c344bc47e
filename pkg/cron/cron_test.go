package cron

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/matryer/is"
)

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	clogger := cronLogger{logger}
	clogger.Info("foo")
	clogger.Error(fmt.Errorf("bar"), "test")
	if buf.String() != "DEBU foo\nERRO test err=bar\n" {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestSchedulerAddRemove(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(context.TODO())

	id, err := s.AddFunc("* * * * *", func() {})
	is.NoErr(err)
	is.Equal(len(s.Entries()), 1)
	s.Remove(id)
	is.Equal(len(s.Entries()), 0)
}

func TestSchedulerSpecs(t *testing.T) {
	s := NewScheduler(context.TODO())

	cases := []struct {
		spec string
		ok   bool
	}{
		{"@every 1h", true},
		{"@hourly", true},
		{"*/5 * * * *", true},
		{"30 */5 * * * *", true},
		{"not a spec", false},
		{"", false},
	}

	for _, c := range cases {
		_, err := s.AddNamed("test", c.spec, func() {})
		if (err == nil) != c.ok {
			t.Errorf("AddNamed(%q) => %v, want ok %v", c.spec, err, c.ok)
		}
	}
}

func TestSchedulerRuns(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(context.TODO())

	done := make(chan struct{})
	_, err := s.AddNamed("tick", "@every 1s", func() {
		select {
		case <-done:
		default:
			close(done)
		}
	})
	is.NoErr(err)

	s.Start()
	defer s.Shutdown()
	<-done
}
