package dialect

import (
	"fmt"
	"strings"
)

type oracle struct{}

func (oracle) Name() string {
	return "oracle"
}

func (oracle) NativeIDGenerator() string {
	return "sequence"
}

func (oracle) BindVar(i int) string {
	return fmt.Sprintf(":%d", i)
}

func (oracle) Quote(key string) string {
	return fmt.Sprintf("\"%s\"", strings.ToUpper(key))
}

func (oracle) SupportLastInsertID() bool {
	return false
}

func (oracle) SequenceNextValSQL(sequence string) string {
	return fmt.Sprintf("SELECT %s.nextval FROM dual", sequence)
}
