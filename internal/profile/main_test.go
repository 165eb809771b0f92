package profile

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per open DB
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}
