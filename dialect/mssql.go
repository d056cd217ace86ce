package dialect

import "fmt"

type mssql struct{}

func (mssql) Name() string {
	return "mssql"
}

func (mssql) NativeIDGenerator() string {
	return "identity"
}

func (mssql) BindVar(i int) string {
	return fmt.Sprintf("@p%d", i)
}

func (mssql) Quote(key string) string {
	return fmt.Sprintf("[%s]", key)
}

func (mssql) SupportLastInsertID() bool {
	return false
}

func (mssql) SequenceNextValSQL(sequence string) string {
	return fmt.Sprintf("SELECT NEXT VALUE FOR %s", sequence)
}
