package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/site-platform/internal/models"
)

type MockGraceChecker struct {
	mock.Mock
}

func (m *MockGraceChecker) ProcessGracePeriodCheck(ctx context.Context) (*models.GraceSweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GraceSweepResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRunGracePeriodCheck(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockGraceChecker)
	}{
		{
			name: "deactivated sites without channel",
			setupMocks: func(c *MockGraceChecker) {
				c.On("ProcessGracePeriodCheck", mock.Anything).Return(&models.GraceSweepResult{
					Processed:        2,
					DeactivatedSites: []string{"ALPHA", "BETA"},
				}, nil).Once()
			},
		},
		{
			name: "no overdue accounts",
			setupMocks: func(c *MockGraceChecker) {
				c.On("ProcessGracePeriodCheck", mock.Anything).Return(&models.GraceSweepResult{}, nil).Once()
			},
		},
		{
			name: "checker error only logged",
			setupMocks: func(c *MockGraceChecker) {
				c.On("ProcessGracePeriodCheck", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(MockGraceChecker)
			tt.setupMocks(checker)

			service := NewSweeperService(checker, newNoopLogger(), time.Hour)
			service.runGracePeriodCheck(context.Background(), nil)

			checker.AssertExpectations(t)
		})
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	checker := new(MockGraceChecker)
	checker.On("ProcessGracePeriodCheck", mock.Anything).Return(&models.GraceSweepResult{}, nil)

	service := NewSweeperService(checker, newNoopLogger(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Run(ctx, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

func TestNewSweeperService_DefaultInterval(t *testing.T) {
	service := NewSweeperService(new(MockGraceChecker), newNoopLogger(), 0)
	assert.Equal(t, 24*time.Hour, service.interval)
}
