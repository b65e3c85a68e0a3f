// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HoangTuan-git/Product-Supplier-Management/pkg/uuid"
)

func TestNew_IsSortableV7(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Equal(t, byte('7'), first[14])
	assert.LessOrEqual(t, first[:13], second[:13])
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid("0190a6a4-7c4e-7b9e-9f3c-2d1e0f4a5b6c"))
	assert.False(t, uuid.Valid("not-a-uuid"))
	assert.False(t, uuid.Valid("{0190a6a4-7c4e-7b9e-9f3c-2d1e0f4a5b6c}"))
	assert.False(t, uuid.Valid(""))
}
