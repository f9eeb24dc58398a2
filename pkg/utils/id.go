package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 32 位无横杠 uuid，对应各表 size:32 的主键
func NewID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
