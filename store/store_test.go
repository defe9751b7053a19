package store

import (
	"testing"

	"github.com/Mokereri/hotel-kitchen-api/testutil"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}

func strPtr(s string) *string { return &s }
