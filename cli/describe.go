package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gorm.io/entitymap"
)

// PrintMapping describe a compiled mapping as a table of its columns
func PrintMapping(w io.Writer, m *entitymap.Mapping) error {
	table := m.Table()
	if _, err := fmt.Fprintf(w, "business %s: table %s, db group %s, id %s (%s)\n",
		m.Business().Name, table.Name, m.DBGroupName(), table.IDStrategy, table.Generator.Key()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  PROPERTY\tCOLUMN\tTYPE\tFLAGS")
	for _, col := range table.Columns() {
		typeName := col.TypeName
		if typeName == "" && col.GoType != nil {
			typeName = col.GoType.String()
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", col.PropName, col.ColName, typeName, flags(col.IsPrimaryKey(), col.AllowInsert, col.AllowUpdate, col.Lazy, col.Loader != nil))
	}
	return tw.Flush()
}

func flags(pk, insert, update, lazy, loader bool) string {
	var f []string
	if pk {
		f = append(f, "pk")
	}
	if !insert {
		f = append(f, "no-insert")
	}
	if !update {
		f = append(f, "no-update")
	}
	if lazy {
		f = append(f, "lazy")
	}
	if loader {
		f = append(f, "loader")
	}
	return strings.Join(f, ",")
}
