package state

import (
	"time"

	"go.uber.org/zap"

	"mkbook/common"
)

// newLocalEnv creates environment usable before configuration is loaded:
// logging goes nowhere and book is produced as HTML.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Log:    zap.NewNop(),
		Format: common.OutputFmtHtml,
		start:  time.Now(),
	}
}
