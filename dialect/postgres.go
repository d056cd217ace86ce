package dialect

import "fmt"

type postgres struct{}

func (postgres) Name() string {
	return "postgres"
}

func (postgres) NativeIDGenerator() string {
	return "sequence"
}

func (postgres) BindVar(i int) string {
	return fmt.Sprintf("$%v", i)
}

func (postgres) Quote(key string) string {
	return fmt.Sprintf("\"%s\"", key)
}

// SupportLastInsertID lib/pq doesn't implement LastInsertId, use RETURNING instead
func (postgres) SupportLastInsertID() bool {
	return false
}

func (postgres) SequenceNextValSQL(sequence string) string {
	return fmt.Sprintf("SELECT nextval('%s')", sequence)
}
