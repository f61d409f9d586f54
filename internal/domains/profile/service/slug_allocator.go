package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"confession-backend/internal/shared/utils"
)

// maxSlugProbes giới hạn số lần probe base, base-1, ... trước khi dùng random suffix
const maxSlugProbes = 20

// SlugChecker là phần repository mà allocator cần
type SlugChecker interface {
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// SlugAllocator probe slug theo thứ tự base, base-1, base-2, ...
// Không reserve gì cả: unique constraint trong DB mới là guard thật sự.
type SlugAllocator struct {
	checker   SlugChecker
	maxProbes int
	suffix    func() (string, error)
}

func NewSlugAllocator(checker SlugChecker) *SlugAllocator {
	return &SlugAllocator{
		checker:   checker,
		maxProbes: maxSlugProbes,
		suffix:    randomHexSuffix,
	}
}

func (a *SlugAllocator) AllocateSlug(ctx context.Context, displayName string) (string, error) {
	base := utils.GenerateSlug(displayName)

	for i := 0; i < a.maxProbes; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		taken, err := a.checker.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	// Hết probes: random suffix, insert sẽ fail về ErrSlugTaken nếu trùng
	suffix, err := a.suffix()
	if err != nil {
		return "", err
	}
	return base + "-" + suffix, nil
}

// randomHexSuffix trả về 6 ký tự hex
func randomHexSuffix() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate slug suffix: %w", err)
	}
	return hex.EncodeToString(b), nil
}
