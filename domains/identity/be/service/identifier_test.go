package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyIdentifier(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want Identifier
	}{
		{"plain email", "john@x.com", Identifier{Kind: IdentifierEmail, Value: "john@x.com"}},
		{"padded email", "  john@x.com  ", Identifier{Kind: IdentifierEmail, Value: "john@x.com"}},
		{"bare phone", "9876543210", Identifier{Kind: IdentifierPhone, Value: "9876543210"}},
		{"spaced phone", "98765 43210", Identifier{Kind: IdentifierPhone, Value: "9876543210"}},
		{"country code plus", "+91 98765 43210", Identifier{Kind: IdentifierPhone, Value: "9876543210"}},
		{"country code bare", "919876543210", Identifier{Kind: IdentifierPhone, Value: "9876543210"}},
		{"dashed phone", "98765-43210", Identifier{Kind: IdentifierPhone, Value: "9876543210"}},
		{"parenthesised phone", "(987) 654-3210", Identifier{Kind: IdentifierPhone, Value: "9876543210"}},
		{"too short", "12345", Identifier{Kind: IdentifierInvalid}},
		{"too long", "12345678901234", Identifier{Kind: IdentifierInvalid}},
		{"garbage", "not-an-identifier", Identifier{Kind: IdentifierInvalid}},
		{"empty", "   ", Identifier{Kind: IdentifierInvalid}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ClassifyIdentifier(tc.raw))
		})
	}
}

func TestResolveToEmailPassesEmailsThrough(t *testing.T) {
	t.Parallel()

	normalizer := NewNormalizer(&mockRepository{
		tenantByPhoneFn: func(ctx context.Context, phone string) (TenantRecord, bool, error) {
			t.Fatal("emails must not hit the store")
			return TenantRecord{}, false, nil
		},
	}, nil)

	email, err := normalizer.ResolveToEmail(context.Background(), " john@x.com ")
	require.NoError(t, err)
	require.Equal(t, "john@x.com", email)
}

func TestResolveToEmailTriesStorageConventionsInOrder(t *testing.T) {
	t.Parallel()

	// All three input shapes must find the record under any of the three
	// storage conventions.
	inputs := []string{"+91 98765 43210", "9198765 43210", "9876543210"}
	stored := []string{"9876543210", "+919876543210", "919876543210"}

	for _, storedPhone := range stored {
		for _, input := range inputs {
			var tried []string
			normalizer := NewNormalizer(&mockRepository{
				tenantByPhoneFn: func(ctx context.Context, phone string) (TenantRecord, bool, error) {
					tried = append(tried, phone)
					if phone == storedPhone {
						return TenantRecord{ID: "t1", Email: "john@x.com", Phone: storedPhone}, true, nil
					}
					return TenantRecord{}, false, nil
				},
			}, nil)

			email, err := normalizer.ResolveToEmail(context.Background(), input)
			require.NoError(t, err, "input %q stored %q", input, storedPhone)
			require.Equal(t, "john@x.com", email)
			require.Equal(t, "9876543210", tried[0], "bare 10 digits must be tried first")
		}
	}
}

func TestResolveToEmailPhoneUnknown(t *testing.T) {
	t.Parallel()

	normalizer := NewNormalizer(&mockRepository{}, nil)

	_, err := normalizer.ResolveToEmail(context.Background(), "9876543210")
	require.ErrorIs(t, err, ErrPhoneNotFound)
}

func TestResolveToEmailSignupRequired(t *testing.T) {
	t.Parallel()

	normalizer := NewNormalizer(&mockRepository{
		tenantByPhoneFn: func(ctx context.Context, phone string) (TenantRecord, bool, error) {
			if phone == "9876543210" {
				// Admin entered the phone but the tenant never signed up.
				return TenantRecord{ID: "t1", Phone: phone}, true, nil
			}
			return TenantRecord{}, false, nil
		},
	}, nil)

	_, err := normalizer.ResolveToEmail(context.Background(), "9876543210")
	require.ErrorIs(t, err, ErrSignupRequired)
}

func TestResolveToEmailInvalidIdentifier(t *testing.T) {
	t.Parallel()

	normalizer := NewNormalizer(&mockRepository{}, nil)

	_, err := normalizer.ResolveToEmail(context.Background(), "???")
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}
