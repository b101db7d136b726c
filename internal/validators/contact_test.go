package validators

import (
	"context"
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	mx  map[string]bool
	ips map[string]bool
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if f.mx[name] {
		return []*net.MX{{Host: "mx." + name, Pref: 10}}, nil
	}
	return nil, errors.New("no such host")
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if f.ips[host] {
		return []net.IPAddr{{IP: net.IPv4(127, 0, 0, 1)}}, nil
	}
	return nil, errors.New("no such host")
}

func TestEmailDomainChecker(t *testing.T) {
	checker := NewEmailDomainChecker(fakeResolver{
		mx:  map[string]bool{"mail.example": true},
		ips: map[string]bool{"web.example": true},
	})

	tests := []struct {
		email string
		want  bool
	}{
		{"ana@mail.example", true},
		{"ana@web.example", true},
		{"ana@nowhere.example", false},
		{"ana@", false},
		{"@mail.example", false},
		{"no-at-sign", false},
	}
	for _, tt := range tests {
		if got := checker.Valid(context.Background(), tt.email); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "", true},
		{"(11) 98765-4321", "11987654321", true},
		{"+55 11 98765.4321", "+5511987654321", true},
		{"1234", "", false},
		{"11 9876x4321", "", false},
		{"55+11987654321", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizePhone(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizePhone(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
