package validation

import (
	"errors"
	"testing"

	"github.com/yungbote/contactbook-backend/internal/domain"
)

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{phone: "123456", want: false},
		{phone: "1234567", want: true},
		{phone: "+123456789012345", want: true},
		{phone: "1234567890123456", want: false},
		{phone: "+1234567890123456", want: false},
		{phone: "555-1234567", want: false},
		{phone: "++1234567", want: false},
		{phone: "1234567+", want: false},
	}
	for _, tc := range cases {
		if got := IsValidPhone(tc.phone); got != tc.want {
			t.Fatalf("IsValidPhone(%q)=%v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{email: "a@x.com", want: true},
		{email: "first.last-1@mail.example.org", want: true},
		{email: "under_score@x.io", want: true},
		{email: "no-at.example.com", want: false},
		{email: "a@nodot", want: false},
		{email: "a@x.", want: false},
		{email: "a b@x.com", want: false},
		{email: "@x.com", want: false},
		{email: "a@x.com\n", want: false},
	}
	for _, tc := range cases {
		if got := IsValidEmail(tc.email); got != tc.want {
			t.Fatalf("IsValidEmail(%q)=%v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestValidateContact(t *testing.T) {
	cases := []struct {
		name   string
		in     ContactInput
		reason string
	}{
		{name: "ok_minimal", in: ContactInput{Name: "Ann"}},
		{name: "ok_full", in: ContactInput{Name: "Ann", Phone: "5551234567", Email: "a@x.com"}},
		{name: "missing_name", in: ContactInput{Phone: "5551234567"}, reason: ReasonNameRequired},
		{name: "bad_email", in: ContactInput{Name: "Ann", Email: "nope"}, reason: ReasonInvalidEmail},
		{name: "bad_phone", in: ContactInput{Name: "Ann", Phone: "12"}, reason: ReasonInvalidPhone},
		{name: "blank_name", in: ContactInput{Name: " \t "}, reason: ReasonNameRequired},
		{name: "padded_phone", in: ContactInput{Name: "Ann", Phone: " 5551234567 "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateContact(tc.in)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("ValidateContact: unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("ValidateContact: want ErrValidation, got %v", err)
			}
			if err.Error() != tc.reason {
				t.Fatalf("reason: want=%q got=%q", tc.reason, err.Error())
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := ContactInput{Name: "  Ann ", Phone: " 5551234567 ", Email: " A@X.com "}.Normalize()
	if got.Name != "Ann" || got.Phone != "5551234567" || got.Email != "A@X.com" {
		t.Fatalf("Normalize: unexpected %+v", got)
	}
}

func TestFindDuplicate(t *testing.T) {
	existing := []*domain.Contact{
		{ID: "1", Owner: "bob", Name: "Ann", Phone: "5551234567", Email: "a@x.com"},
	}
	cases := []struct {
		name  string
		cname string
		phone string
		email string
		want  bool
	}{
		{name: "name_phone_match", cname: "ann", phone: "5551234567", email: "other@x.com", want: true},
		{name: "email_match", cname: "Different", phone: "000", email: "A@X.com", want: true},
		{name: "no_match", cname: "Different", phone: "000", email: "new@x.com", want: false},
		{name: "same_name_other_phone", cname: "Ann", phone: "5550000000", email: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FindDuplicate(existing, tc.cname, tc.phone, tc.email); got != tc.want {
				t.Fatalf("FindDuplicate=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestFindDuplicateEmptyPhoneIsAKey(t *testing.T) {
	existing := []*domain.Contact{{ID: "1", Owner: "bob", Name: "Ann"}}
	if !FindDuplicate(existing, "ANN", "", "") {
		t.Fatalf("two nameless-phone Anns should collide")
	}
	if FindDuplicate(existing, "Bea", "", "") {
		t.Fatalf("empty email must not match empty email")
	}
}
