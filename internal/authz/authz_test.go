package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPinValidator struct {
	mock.Mock
}

func (m *MockPinValidator) ValidateVipPin(ctx context.Context, slug, pin string) bool {
	args := m.Called(ctx, slug, pin)
	return args.Bool(0)
}

func pinValidator(valid bool) *MockPinValidator {
	m := new(MockPinValidator)
	m.On("ValidateVipPin", mock.Anything, mock.Anything, mock.Anything).Return(valid).Maybe()
	return m
}

var (
	anonymous = Actor{}
	admin     = Actor{Authenticated: true, Role: "admin"}
	vipClient = Actor{Authenticated: true, Role: "client", Plan: "vip", SiteSlug: "DEMO"}
	essential = Actor{Authenticated: true, Role: "client", Plan: "essential", SiteSlug: "DEMO"}
)

func TestCanWriteSettings(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		pinValid bool
		wantErr  error
	}{
		{name: "anonymous rejected", actor: anonymous, pinValid: true, wantErr: ErrAuthRequired},
		{name: "admin unconditional", actor: admin, pinValid: false, wantErr: nil},
		{name: "vip with valid pin", actor: vipClient, pinValid: true, wantErr: nil},
		{name: "vip with wrong pin", actor: vipClient, pinValid: false, wantErr: ErrInvalidPin},
		{name: "essential rejected before pin check", actor: essential, pinValid: true, wantErr: ErrVipOrAdminRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(pinValidator(tt.pinValid))

			err := gate.CanWriteSettings(context.Background(), tt.actor, "DEMO", "1234")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanWriteSettings_NonVipNeverReachesPinValidator(t *testing.T) {
	pins := new(MockPinValidator)
	gate := NewGate(pins)

	err := gate.CanWriteSettings(context.Background(), essential, "DEMO", "1234")
	assert.ErrorIs(t, err, ErrVipOrAdminRequired)
	pins.AssertNotCalled(t, "ValidateVipPin", mock.Anything, mock.Anything, mock.Anything)
}

func TestCanUpsertSectionDef_PlanNotChecked(t *testing.T) {
	// В отличие от записи настроек, здесь essential-клиент с корректным PIN проходит.
	gate := NewGate(pinValidator(true))
	assert.NoError(t, gate.CanUpsertSectionDef(context.Background(), essential, "DEMO", "1234"))

	gate = NewGate(pinValidator(false))
	assert.ErrorIs(t, gate.CanUpsertSectionDef(context.Background(), essential, "DEMO", "0000"), ErrInvalidPin)

	gate = NewGate(pinValidator(false))
	assert.NoError(t, gate.CanUpsertSectionDef(context.Background(), admin, "DEMO", ""))

	assert.ErrorIs(t, NewGate(pinValidator(true)).CanUpsertSectionDef(context.Background(), anonymous, "DEMO", "1234"), ErrAuthRequired)
}

func TestFeedbackFullAccess(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		pinValid bool
		want     bool
	}{
		{name: "anonymous gets public view", actor: anonymous, pinValid: true, want: false},
		{name: "admin gets full view", actor: admin, pinValid: false, want: true},
		{name: "vip with pin gets full view", actor: vipClient, pinValid: true, want: true},
		{name: "vip without pin gets public view", actor: vipClient, pinValid: false, want: false},
		{name: "essential gets public view", actor: essential, pinValid: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(pinValidator(tt.pinValid))
			assert.Equal(t, tt.want, gate.FeedbackFullAccess(context.Background(), tt.actor, "DEMO", "1234"))
		})
	}
}

func TestFeedbackFullAccess_EssentialDoesNotConsultPin(t *testing.T) {
	pins := new(MockPinValidator)
	gate := NewGate(pins)

	assert.False(t, gate.FeedbackFullAccess(context.Background(), essential, "DEMO", "1234"))
	pins.AssertNotCalled(t, "ValidateVipPin", mock.Anything, mock.Anything, mock.Anything)
}

func TestCanApproveFeedback(t *testing.T) {
	assert.NoError(t, NewGate(pinValidator(false)).CanApproveFeedback(context.Background(), admin, "DEMO", ""))
	assert.NoError(t, NewGate(pinValidator(true)).CanApproveFeedback(context.Background(), vipClient, "DEMO", "1234"))
	assert.ErrorIs(t, NewGate(pinValidator(false)).CanApproveFeedback(context.Background(), vipClient, "DEMO", "0000"), ErrInvalidPin)
	assert.ErrorIs(t, NewGate(pinValidator(true)).CanApproveFeedback(context.Background(), essential, "DEMO", "1234"), ErrVipOrAdminRequired)
	assert.ErrorIs(t, NewGate(pinValidator(true)).CanApproveFeedback(context.Background(), anonymous, "DEMO", "1234"), ErrAuthRequired)
}

func TestCanWriteAssets(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{name: "anonymous rejected", actor: anonymous, wantErr: ErrAuthRequired},
		{name: "admin allowed", actor: admin, wantErr: nil},
		{name: "vip plan allowed without pin", actor: vipClient, wantErr: nil},
		{
			name:    "essential with active billing allowed",
			actor:   Actor{Authenticated: true, Role: "client", Plan: "essential", BillingStatus: "approved"},
			wantErr: nil,
		},
		{
			name:    "essential with lapsed billing rejected",
			actor:   Actor{Authenticated: true, Role: "client", Plan: "essential", BillingStatus: "cancelled"},
			wantErr: ErrVipOrAdminRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(pinValidator(false))

			err := gate.CanWriteAssets(tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanReadSiteData(t *testing.T) {
	gate := NewGate(pinValidator(false))

	assert.NoError(t, gate.CanReadSiteData(admin, "OTHER"))
	assert.NoError(t, gate.CanReadSiteData(vipClient, "DEMO"))
	assert.NoError(t, gate.CanReadSiteData(vipClient, " demo "), "slug compare is case-insensitive")
	assert.ErrorIs(t, gate.CanReadSiteData(vipClient, "OTHER"), ErrAccessDenied)
	assert.ErrorIs(t, gate.CanReadSiteData(anonymous, "DEMO"), ErrAuthRequired)
	assert.ErrorIs(t, gate.CanReadSiteData(Actor{Authenticated: true, Role: "client"}, "DEMO"), ErrAccessDenied)
}
