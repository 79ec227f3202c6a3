package policy

import (
	"errors"
	"testing"

	"github.com/erazemk/najdeno/internal/apperr"
)

func TestCheckDomain(t *testing.T) {
	const suffix = "@sahyadri.edu.in"

	tests := []struct {
		email   string
		wantErr bool
	}{
		{"ana@sahyadri.edu.in", false},
		{"Ana@Sahyadri.EDU.in", false},
		{"  ana@sahyadri.edu.in ", false},
		{"ana@gmail.com", true},
		{"ana@sahyadri.edu.in.evil.com", true},
		{"ana@notsahyadri.edu.in", true},
		{"@sahyadri.edu.in", true},
		{"", true},
	}

	for _, tt := range tests {
		err := CheckDomain(tt.email, suffix)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckDomain(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			continue
		}
		if err == nil {
			continue
		}
		var ve *apperr.ValidationError
		if !errors.As(err, &ve) || ve.Field != "domain" {
			t.Errorf("CheckDomain(%q) = %v, want ValidationError on domain", tt.email, err)
		}
	}
}

func TestCheckDomainEmptySuffixRejectsAll(t *testing.T) {
	if err := CheckDomain("ana@uni.edu", ""); err == nil {
		t.Error("expected an unconfigured domain to reject everyone")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Uni.EDU "); got != "ana@uni.edu" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
