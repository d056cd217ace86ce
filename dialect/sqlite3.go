package dialect

import "fmt"

type sqlite3 struct{}

func (sqlite3) Name() string {
	return "sqlite3"
}

func (sqlite3) NativeIDGenerator() string {
	return "identity"
}

func (sqlite3) BindVar(i int) string {
	return "?"
}

func (sqlite3) Quote(key string) string {
	return fmt.Sprintf("\"%s\"", key)
}

func (sqlite3) SupportLastInsertID() bool {
	return true
}

func (sqlite3) SequenceNextValSQL(sequence string) string {
	return ""
}
