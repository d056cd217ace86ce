package dialect

import "fmt"

type mysql struct{}

func (mysql) Name() string {
	return "mysql"
}

func (mysql) NativeIDGenerator() string {
	return "identity"
}

func (mysql) BindVar(i int) string {
	return "?"
}

func (mysql) Quote(key string) string {
	return fmt.Sprintf("`%s`", key)
}

func (mysql) SupportLastInsertID() bool {
	return true
}

func (mysql) SequenceNextValSQL(sequence string) string {
	return ""
}
