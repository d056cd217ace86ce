package schema

import (
	"testing"
)

func TestToDBName(t *testing.T) {
	var maps = map[string]string{
		"":                          "",
		"x":                         "x",
		"X":                         "x",
		"userRestrictions":          "user_restrictions",
		"ThisIsATest":               "this_is_a_test",
		"PFAndESI":                  "pf_and_esi",
		"AbcAndJkl":                 "abc_and_jkl",
		"EmployeeID":                "employee_id",
		"SKU_ID":                    "sku_id",
		"FieldX":                    "field_x",
		"HTTPAndSMTP":               "http_and_smtp",
		"HTTPServerHandlerForURLID": "http_server_handler_for_url_id",
		"UUID":                      "uuid",
		"HTTPURL":                   "http_url",
		"HTTP_URL":                  "http_url",
		"SHA256Hash":                "sha256_hash",
		"SHA256HASH":                "sha256_hash",
		"ThisIsActuallyATestSoWeMayBeAbleToUseThisCodeInGormPackageAlsoIdCanBeUsedAtTheEndAsID": "this_is_actually_a_test_so_we_may_be_able_to_use_this_code_in_gorm_package_also_id_can_be_used_at_the_end_as_id",
	}

	for key, value := range maps {
		if toDBName(key) != value {
			t.Errorf("%v toName should equal %v, but got %v", key, value, toDBName(key))
		}
	}
}

func TestNamingStrategy(t *testing.T) {
	ns := NamingStrategy{TablePrefix: "t_"}
	if name := ns.TableName("UserAccount"); name != "t_user_accounts" {
		t.Errorf("table name should be t_user_accounts, but got %v", name)
	}
	if name := ns.ColumnName("t_user_accounts", "CreatedAt"); name != "created_at" {
		t.Errorf("column name should be created_at, but got %v", name)
	}

	ns.SingularTable = true
	if name := ns.TableName("Person"); name != "t_person" {
		t.Errorf("singular table name should be t_person, but got %v", name)
	}
	if name := (NamingStrategy{}).TableName("Person"); name != "people" {
		t.Errorf("plural table name should be people, but got %v", name)
	}

	var namer Namer = VerbatimNamer{}
	if name := namer.TableName("UserAccount"); name != "UserAccount" {
		t.Errorf("verbatim table name should be UserAccount, but got %v", name)
	}
	if name := namer.ColumnName("UserAccount", "createdAt"); name != "createdAt" {
		t.Errorf("verbatim column name should be createdAt, but got %v", name)
	}
}
