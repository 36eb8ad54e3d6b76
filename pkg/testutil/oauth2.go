package testutil

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

type MockOAuth2 struct {
	Name            string
	ExchangeFunc    func(ctx context.Context, code string) (*oauth2.Token, error)
	AuthCodeURLFunc func(state string) string
}

func NewMockOAuth2(name string) *MockOAuth2 {
	return &MockOAuth2{Name: name}
}

func (m *MockOAuth2) Service() string {
	return m.Name
}

func (m *MockOAuth2) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}

	return nil, errors.New("not implemented")
}

func (m *MockOAuth2) AuthCodeURL(state string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state)
	}

	return "https://discord.com/oauth2/authorize?state=" + state
}
