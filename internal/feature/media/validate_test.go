package media

import (
	"errors"
	"testing"

	"gp-immo/internal/core/storage"
	"gp-immo/internal/domain"
	"gp-immo/internal/testutil"
)

func reason(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

func TestValidateUpload(t *testing.T) {
	cases := []struct {
		name     string
		existing int
		files    []storage.File
		want     string
	}{
		{"empty batch", 0, nil, domain.ReasonEmptyBatch},
		{"eleven at once", 0, testutil.Images(11), domain.ReasonTooManyFiles},
		{"too many wins over quota", 5, testutil.Images(11), domain.ReasonTooManyFiles},
		{"over cumulative quota", 8, testutil.Images(3), domain.ReasonQuotaExceeded},
		{"exactly at quota", 8, testutil.Images(2), ""},
		{"ten on empty", 0, testutil.Images(10), ""},
		{"pdf rejected", 0, []storage.File{testutil.File("a.pdf", "application/pdf", "x")}, domain.ReasonUnsupportedType},
		{"video accepted", 0, []storage.File{testutil.File("a.mp4", "video/mp4", "x")}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpload(tc.existing, tc.files)
			if got := reason(err); got != tc.want {
				t.Fatalf("ValidateUpload() reason = %q (err %v), want %q", got, err, tc.want)
			}
			if tc.want == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatorSeparateLimits(t *testing.T) {
	v := Validator{MaxPerProperty: 6, MaxPerBatch: 3}
	if err := v.Validate(0, testutil.Images(4)); reason(err) != domain.ReasonTooManyFiles {
		t.Fatalf("batch over per-batch cap = %v", err)
	}
	if err := v.Validate(4, testutil.Images(3)); reason(err) != domain.ReasonQuotaExceeded {
		t.Fatalf("quota over per-property cap = %v", err)
	}
	if err := v.Validate(3, testutil.Images(3)); err != nil {
		t.Fatalf("within both caps = %v", err)
	}
	// 单次上限大于累计上限时，累计仍然生效
	wide := Validator{MaxPerProperty: 2, MaxPerBatch: 10}
	if err := wide.Validate(0, testutil.Images(3)); reason(err) != domain.ReasonQuotaExceeded {
		t.Fatalf("wide batch over quota = %v", err)
	}
}
