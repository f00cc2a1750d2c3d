package registrations

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alumni-reunion/backend/internal/models"
)

func validInput() SubmitInput {
	return SubmitInput{
		Name:           "Nguyen Van A",
		Phone:          "0901 234 567",
		Email:          "a.nguyen@example.com",
		ClassName:      "12A3",
		GraduationYear: "1998 - 2001",
		Message:        "See you there",
		Sessions:       []string{"ceremony", "festival"},
	}
}

func TestValidate_OK(t *testing.T) {
	v, err := validate(validInput())
	require.NoError(t, err)
	require.Equal(t, "Nguyen Van A", v.Name)
	require.Equal(t, []models.SessionTag{models.SessionCeremony, models.SessionFestival}, v.Sessions)
}

func TestValidate_HoneypotWinsOverEverything(t *testing.T) {
	in := validInput()
	in.Website = "http://spam.example"
	_, err := validate(in)
	require.ErrorIs(t, err, ErrMalformedInput)

	// Honeypot beats even an otherwise-broken submission.
	in = SubmitInput{Website: "x"}
	_, err = validate(in)
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestValidate_RequiredFields(t *testing.T) {
	for _, field := range []string{"name", "phone", "email", "className", "graduationYear"} {
		in := validInput()
		switch field {
		case "name":
			in.Name = "  \t "
		case "phone":
			in.Phone = ""
		case "email":
			in.Email = ""
		case "className":
			in.ClassName = ""
			in.Class = ""
		case "graduationYear":
			in.GraduationYear = ""
		}
		_, err := validate(in)
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "field %s", field)
		require.Equal(t, field, vErr.Field)
	}
}

func TestValidate_MessageOptional(t *testing.T) {
	in := validInput()
	in.Message = ""
	_, err := validate(in)
	require.NoError(t, err)
}

func TestValidate_EmailShape(t *testing.T) {
	for _, bad := range []string{"plainaddress", "a@b", "a @b.com", "a@b .com", "@b.com"} {
		in := validInput()
		in.Email = bad
		_, err := validate(in)
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "email %q", bad)
		require.Equal(t, "email", vErr.Field)
	}
}

func TestValidate_PhoneDigitBoundaries(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"1234567", true},        // 7 digits
		{"123456", false},        // 6 digits
		{"123456789012345", true},  // 15 digits
		{"1234567890123456", false}, // 16 digits
		{"+84 (90) 123-4567", true}, // non-digits stripped, 11 digits
	}
	for _, tc := range cases {
		in := validInput()
		in.Phone = tc.phone
		_, err := validate(in)
		if tc.ok {
			require.NoError(t, err, "phone %q", tc.phone)
		} else {
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "phone %q", tc.phone)
			require.Equal(t, "phone", vErr.Field)
		}
	}
}

func TestValidate_SessionNormalization(t *testing.T) {
	in := validInput()
	in.Sessions = []string{"ceremony", "CEREMONY", "karaoke", " sports "}
	v, err := validate(in)
	require.NoError(t, err)
	require.Equal(t, []models.SessionTag{models.SessionCeremony, models.SessionSports}, v.Sessions)

	// Legacy single-session field folds into the set.
	in = validInput()
	in.Sessions = nil
	in.Session = "festival"
	v, err = validate(in)
	require.NoError(t, err)
	require.Equal(t, []models.SessionTag{models.SessionFestival}, v.Sessions)

	// Only unknown tags -> empty set -> rejected.
	in = validInput()
	in.Sessions = []string{"karaoke"}
	_, err = validate(in)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "sessions", vErr.Field)
}

func TestValidate_TruncatesInsteadOfRejecting(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("a", 500)
	in.Message = strings.Repeat("b", 5000)
	v, err := validate(in)
	require.NoError(t, err)
	require.Len(t, v.Name, maxName)
	require.Len(t, v.Message, maxMessage)
}

func TestSanitize_StripsControlChars(t *testing.T) {
	require.Equal(t, "abc", sanitize("a\x00b\x1fc\x7f", 10))
	require.Equal(t, "hi", sanitize("  hi\r\n", 10))
	require.Equal(t, "héllo", sanitize("héllo", 10)) // rune-safe truncation
	require.Equal(t, "hél", sanitize("héllo", 3))
}
