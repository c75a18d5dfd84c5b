package mysql_test

import (
	"testing"

	"github.com/pingcap/tidb/parser"
	_ "github.com/pingcap/tidb/parser/test_driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/mysql"
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/schema/field"
)

func TestTypeName(t *testing.T) {
	tests := []struct {
		typ    field.Type
		length int
		want   string
	}{
		{field.TypeBool, 0, "tinyint(1)"},
		{field.TypeBool, 4, "tinyint(1)"},
		{field.TypeInt8, 0, "tinyint"},
		{field.TypeUint8, 0, "tinyint unsigned"},
		{field.TypeInt16, 0, "smallint"},
		{field.TypeUint16, 0, "smallint unsigned"},
		{field.TypeInt32, 0, "int"},
		{field.TypeUint32, 0, "int unsigned"},
		{field.TypeInt64, 0, "bigint"},
		{field.TypeUint64, 0, "bigint unsigned"},
		{field.TypeFloat32, 0, "float"},
		{field.TypeFloat64, 0, "double"},
		{field.TypeString, 0, "text"},
		{field.TypeString, -1, "text"},
		{field.TypeString, 255, "varchar(255)"},
		{field.TypeTime, 0, "datetime"},
		{field.TypeInt32, 11, "int(11)"},
		{field.TypeUint32, 10, "int(10) unsigned"},
		{field.TypeInt64, -1, "bigint"},
	}
	d := mysql.New()
	for _, tt := range tests {
		got, err := d.TypeName(tt.typ, tt.length)
		require.NoError(t, err, tt.typ.String())
		assert.Equal(t, tt.want, got, "%s(%d)", tt.typ, tt.length)
	}
}

func TestTypeNameDefined(t *testing.T) {
	d := mysql.New()
	for _, typ := range field.Types() {
		_, err := d.TypeName(typ, -1)
		assert.NoError(t, err, typ.String())
	}
	_, err := d.TypeName(field.TypeInvalid, 0)
	assert.True(t, sqlforge.IsUnsupportedType(err))
	assert.EqualError(t, err, `sqlforge: unsupported type "invalid" for dialect mysql`)
}

func TestDialect(t *testing.T) {
	d := mysql.New()
	assert.Equal(t, dialect.MySQL, d.Name())
	assert.Equal(t, "AUTO_INCREMENT", d.AutoIncrement())
	var _ dialect.Dialect = d
	_, ok := any(d).(dialect.Quoter)
	assert.False(t, ok, "mysql uses the default backtick quoting")
}

// TestSyntax checks the compiled statements with the TiDB MySQL parser.
func TestSyntax(t *testing.T) {
	queries := map[string]*sql.Query{
		"select": sql.Select("t.id", "t.name").
			From("users", "t").
			InnerJoin("pets", "t.id", "pets.owner_id").
			Where("t.name", sql.OpLike, "a%").
			Where("t.deleted_at", sql.OpIs, nil).
			Where("t.score", sql.OpGTE, 1.5).
			OrderBy("t.id", sql.Desc).
			Limit(10, 20),
		"insert": sql.InsertInto("users").Value("name", "a8m").Value("age", 30).Value("active", true),
		"update": sql.Update("users").Set("name", "a8m").Where("id", sql.OpNEQ, 1),
		"delete": sql.Delete().From("users").Where("id", sql.OpLT, 10),
		"drop":   sql.DropTable("users"),
		"create": sql.CreateTable("users", true).
			Field("id", field.TypeUint64, sql.NotNull|sql.PrimaryKey|sql.AutoIncrement).
			FieldSize("name", field.TypeString, 64, sql.NotNull).
			FieldSize("age", field.TypeUint8, 3, 0).
			Field("active", field.TypeBool, 0).
			Field("score", field.TypeFloat64, 0).
			AddField(sql.FieldDef{Name: "nick", Type: field.TypeString, Length: 16, Default: "anon"}).
			Field("created_at", field.TypeTime, sql.NotNull),
		"create composite": sql.CreateTable("user_groups", false).
			Field("user_id", field.TypeInt64, sql.PrimaryKey).
			Field("group_id", field.TypeInt64, sql.PrimaryKey),
	}
	p := parser.New()
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			stmt, err := sql.Compile(q, mysql.New(), false)
			require.NoError(t, err)
			nodes, _, err := p.Parse(stmt.Text, "", "")
			require.NoError(t, err, stmt.Text)
			assert.Len(t, nodes, 1)
		})
	}
}
