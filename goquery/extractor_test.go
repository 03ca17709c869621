package goquery_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/htmltable"
	"github.com/fwojciec/htmltable/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// Ensure Extractor implements htmltable.Extractor at compile time.
var _ htmltable.Extractor = (*goquery.Extractor)(nil)

const simpleTable = `<table><tr><th>IP</th><th>OS</th></tr><tr><td>1.1.1.1</td><td>linux</td></tr></table>`

const serversTable = `<!DOCTYPE html>
<html>
<body>
<table>
	<tr><th>IP</th><th>OS</th><th>State</th><th>Uptime</th></tr>
	<tr><td>10.0.0.1</td><td>linux</td><td>up</td><td>12d</td></tr>
	<tr><td>10.0.0.2</td><td>bsd</td><td>down</td><td>0d</td></tr>
</table>
</body>
</html>`

func extract(t *testing.T, html string, cfg htmltable.Config) *htmltable.Result {
	t.Helper()
	result, err := goquery.NewExtractor().Extract(html, cfg)
	require.NoError(t, err)
	return result
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("keys records by header row text", func(t *testing.T) {
		t.Parallel()

		result := extract(t, simpleTable, htmltable.DefaultConfig())

		assert.JSONEq(t, `[{"IP":"1.1.1.1","OS":"linux"}]`, toJSON(t, result))
	})

	t.Run("keys records by position without header row", func(t *testing.T) {
		t.Parallel()

		html := `<table>
			<tr><td>a</td><td>b</td></tr>
			<tr><td>c</td><td>d</td></tr>
			<tr><td>e</td><td>f</td></tr>
		</table>`

		result := extract(t, html, htmltable.DefaultConfig())

		rows := result.First().Rows
		require.Len(t, rows, 3)
		assert.Equal(t, []htmltable.Key{htmltable.IndexKey(0), htmltable.IndexKey(1)}, rows[0].Record.Keys())
		assert.Equal(t, `[{"0":"a","1":"b"},{"0":"c","1":"d"},{"0":"e","1":"f"}]`, toJSON(t, result))
	})

	t.Run("uses thead header cells as keys", func(t *testing.T) {
		t.Parallel()

		html := `<table>
			<thead><tr><th>Name</th><th>Role</th></tr></thead>
			<tbody>
				<tr><td>Ada</td><td>engineer</td></tr>
				<tr><td>Grace</td><td>admiral</td></tr>
			</tbody>
		</table>`

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Equal(t, `[{"Name":"Ada","Role":"engineer"},{"Name":"Grace","Role":"admiral"}]`, toJSON(t, result))
	})

	t.Run("prefers header id attributes when enabled", func(t *testing.T) {
		t.Parallel()

		html := `<table>
			<thead><tr><th id="ip">IP address</th><th>OS</th></tr></thead>
			<tbody><tr><td>1.1.1.1</td><td>linux</td></tr></tbody>
		</table>`

		withIDs := extract(t, html, htmltable.DefaultConfig())
		cfg := htmltable.DefaultConfig()
		cfg.HeaderIDs = false
		withText := extract(t, html, cfg)

		assert.Equal(t, `[{"ip":"1.1.1.1","OS":"linux"}]`, toJSON(t, withIDs))
		assert.Equal(t, `[{"IP address":"1.1.1.1","OS":"linux"}]`, toJSON(t, withText))
	})

	t.Run("data cells in the header row keep their position", func(t *testing.T) {
		t.Parallel()

		html := `<table>
			<thead><tr><td></td><th>Q1</th><th>Q2</th></tr></thead>
			<tbody><tr><td>north</td><td>10</td><td>20</td></tr></tbody>
		</table>`

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Equal(t, `[{"0":"north","Q1":"10","Q2":"20"}]`, toJSON(t, result))
	})

	t.Run("only the first thead row keys the columns", func(t *testing.T) {
		t.Parallel()

		html := `<table>
			<thead>
				<tr><th>A</th><th>B</th></tr>
				<tr><th>a</th><th>b</th></tr>
			</thead>
			<tbody><tr><td>1</td><td>2</td></tr></tbody>
			<tfoot><tr><td>sum</td><td>3</td></tr></tfoot>
		</table>`

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Equal(t, `[{"A":"1","B":"2"}]`, toJSON(t, result))
	})

	t.Run("excludes footer rows without thead", func(t *testing.T) {
		t.Parallel()

		html := `<table>
			<tr><th>A</th></tr>
			<tr><td>1</td></tr>
			<tfoot><tr><td>total</td></tr></tfoot>
		</table>`

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Equal(t, `[{"A":"1"}]`, toJSON(t, result))
	})

	t.Run("header overrides win over derived keys", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.Headers = map[int]string{1: "System", 3: "Up"}

		result := extract(t, serversTable, cfg)

		rec := result.First().Rows[0].Record
		assert.Equal(t, []htmltable.Key{
			htmltable.NameKey("IP"),
			htmltable.NameKey("System"),
			htmltable.NameKey("State"),
			htmltable.NameKey("Up"),
		}, rec.Keys())
	})

	t.Run("only columns keeps named columns", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.OnlyColumns = htmltable.ColumnSet{htmltable.NameRef("OS")}

		result := extract(t, simpleTable, cfg)

		assert.Equal(t, `[{"OS":"linux"}]`, toJSON(t, result))
	})

	t.Run("only columns keeps indexed columns", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.OnlyColumns = htmltable.ColumnSet{htmltable.IndexRef(3), htmltable.IndexRef(1)}

		result := extract(t, serversTable, cfg)

		assert.Equal(t, `[{"OS":"linux","Uptime":"12d"},{"OS":"bsd","Uptime":"0d"}]`, toJSON(t, result))
	})

	t.Run("ignore columns drops named and indexed columns", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.IgnoreColumns = htmltable.ColumnSet{htmltable.NameRef("IP"), htmltable.IndexRef(3)}

		result := extract(t, serversTable, cfg)

		assert.Equal(t, `[{"OS":"linux","State":"up"},{"OS":"bsd","State":"down"}]`, toJSON(t, result))
	})

	t.Run("column names are case sensitive", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.IgnoreColumns = htmltable.ColumnSet{htmltable.NameRef("ip")}

		result := extract(t, simpleTable, cfg)

		assert.Equal(t, `[{"IP":"1.1.1.1","OS":"linux"}]`, toJSON(t, result))
	})

	t.Run("name references do not match positions", func(t *testing.T) {
		t.Parallel()

		html := `<table><tr><td>a</td><td>b</td></tr></table>`
		cfg := htmltable.DefaultConfig()
		cfg.IgnoreColumns = htmltable.ColumnSet{htmltable.NameRef("0")}

		result := extract(t, html, cfg)

		assert.Equal(t, `[{"0":"a","1":"b"}]`, toJSON(t, result))
	})

	t.Run("only and ignore agree on complementary sets", func(t *testing.T) {
		t.Parallel()

		only := htmltable.DefaultConfig()
		only.OnlyColumns = htmltable.ColumnSet{htmltable.NameRef("State")}
		ignore := htmltable.DefaultConfig()
		ignore.IgnoreColumns = htmltable.ColumnSet{
			htmltable.NameRef("IP"),
			htmltable.NameRef("OS"),
			htmltable.IndexRef(3),
		}

		assert.Equal(t, extract(t, serversTable, only), extract(t, serversTable, ignore))
	})

	t.Run("only columns wins when both lists are set", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.OnlyColumns = htmltable.ColumnSet{htmltable.NameRef("IP")}
		cfg.IgnoreColumns = htmltable.ColumnSet{htmltable.NameRef("IP")}

		result := extract(t, simpleTable, cfg)

		assert.Equal(t, `[{"IP":"1.1.1.1"}]`, toJSON(t, result))
	})
}

func TestExtractor_Extract_HiddenRows(t *testing.T) {
	t.Parallel()

	html := `<table>
		<tr><th>Item</th></tr>
		<tr><td>visible</td></tr>
		<tr style="display: none;"><td>hidden</td></tr>
		<tr style="color: red; DISPLAY:NONE"><td>shouting</td></tr>
		<tr style="display: block"><td>block</td></tr>
	</table>`

	t.Run("keeps hidden rows by default", func(t *testing.T) {
		t.Parallel()

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Len(t, result.First().Rows, 4)
	})

	t.Run("suppresses hidden rows when enabled", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.IgnoreHidden = true

		result := extract(t, html, cfg)

		assert.Equal(t, `[{"Item":"visible"},{"Item":"block"}]`, toJSON(t, result))
	})

	t.Run("is a no-op without hidden rows", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.IgnoreHidden = true

		assert.Equal(t, extract(t, serversTable, htmltable.DefaultConfig()), extract(t, serversTable, cfg))
	})
}

func TestExtractor_Extract_RowLabels(t *testing.T) {
	t.Parallel()

	html := `<table>
		<caption>Timetable</caption>
		<tr><th>Day</th><th>Start</th><th>End</th></tr>
		<tr><th>Mon</th><td>9:00</td><td>17:00</td></tr>
		<tr><th>Tue</th><td>10:00</td><td>18:00</td></tr>
	</table>`

	result := extract(t, html, htmltable.DefaultConfig())

	rows := result.First().Rows
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Labeled)
	assert.Equal(t, "Mon", rows[0].Label)
	assert.Equal(t, `{"Mon":{"Start":"9:00","End":"17:00"},"Tue":{"Start":"10:00","End":"18:00"}}`, toJSON(t, result))
}

func TestExtractor_Extract_Tables(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<table><tr><td>first</td></tr></table>
		<p>between</p>
		<table><tr><td>second</td></tr></table>
	</body></html>`

	t.Run("collects all tables keyed by ordinal", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.All = true

		result := extract(t, html, cfg)

		require.Len(t, result.Tables, 2)
		assert.Equal(t, `{"0":[{"0":"first"}],"1":[{"0":"second"}]}`, toJSON(t, result))
	})

	t.Run("single mode returns the first table", func(t *testing.T) {
		t.Parallel()

		all := htmltable.DefaultConfig()
		all.All = true

		single := extract(t, html, htmltable.DefaultConfig())
		collected := extract(t, html, all)

		require.Len(t, single.Tables, 1)
		assert.Equal(t, collected.Tables[0].Rows, single.First().Rows)
	})

	t.Run("names tables by caption then id", func(t *testing.T) {
		t.Parallel()

		html := `<table id="a"><caption> Prices </caption><tr><td>1</td></tr></table>
			<table id="servers"><tr><td>2</td></tr></table>
			<table id="servers"><tr><td>3</td></tr></table>
			<table><tr><td>4</td></tr></table>`
		cfg := htmltable.DefaultConfig()
		cfg.All = true

		result := extract(t, html, cfg)

		var names []string
		for _, table := range result.Tables {
			names = append(names, table.Name)
		}
		assert.Equal(t, []string{"Prices", "servers", "2", "3"}, names)
	})

	t.Run("selects the table with the configured id", func(t *testing.T) {
		t.Parallel()

		html := `<table><tr><td>no id</td></tr></table>
			<table id="test0"><tr><td>zero</td></tr></table>
			<table id="test1"><tr><td>one</td></tr></table>`
		cfg := htmltable.DefaultConfig()
		cfg.TableID = "test1"

		result := extract(t, html, cfg)

		assert.Equal(t, `[{"0":"one"}]`, toJSON(t, result))
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.TableID = "missing"

		_, err := goquery.NewExtractor().Extract(html, cfg)

		require.Error(t, err)
		assert.Equal(t, htmltable.ENOTFOUND, htmltable.ErrorCode(err))
	})

	t.Run("collecting all ignores the table id", func(t *testing.T) {
		t.Parallel()

		cfg := htmltable.DefaultConfig()
		cfg.All = true
		cfg.TableID = "missing"

		result := extract(t, html, cfg)

		assert.Len(t, result.Tables, 2)
	})

	t.Run("document without tables yields an empty list", func(t *testing.T) {
		t.Parallel()

		result := extract(t, `<p>nothing here</p>`, htmltable.DefaultConfig())

		assert.Equal(t, `[]`, toJSON(t, result))
	})

	t.Run("nested tables do not leak rows into the outer table", func(t *testing.T) {
		t.Parallel()

		html := `<table id="outer">
			<tr><td>outer</td><td><table id="inner"><tr><td>x</td></tr><tr><td>y</td></tr></table></td></tr>
		</table>`
		cfg := htmltable.DefaultConfig()
		cfg.TableID = "outer"

		result := extract(t, html, cfg)

		assert.Len(t, result.First().Rows, 1)
	})
}

func TestExtractor_Extract_Text(t *testing.T) {
	t.Parallel()

	t.Run("normalizes cell text", func(t *testing.T) {
		t.Parallel()

		html := `<table><tr><td>&nbsp; a &amp; b&nbsp;</td><td>
			<b>bold</b> text
		</td></tr></table>`

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Equal(t, `[{"0":"a & b","1":"bold text"}]`, toJSON(t, result))
	})

	t.Run("keeps escaped markup characters as text", func(t *testing.T) {
		t.Parallel()

		html := `<table>
			<tr><th>a&lt;b</th></tr>
			<tr><td>&lt;br&gt;</td></tr>
			<tr><td>a&lt;b and c&gt;d</td></tr>
			<tr><td>&amp;amp;</td></tr>
		</table>`

		result := extract(t, html, htmltable.DefaultConfig())

		rows := result.First().Rows
		require.Len(t, rows, 3)
		var got []string
		for _, row := range rows {
			v, ok := row.Record.Get(htmltable.NameKey("a<b"))
			require.True(t, ok)
			got = append(got, v)
		}
		assert.Equal(t, []string{"<br>", "a<b and c>d", "&amp;"}, got)
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		html := `<table><tr><td>a<td>b<tr><td>c</table></div></span>`

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Equal(t, `[{"0":"a","1":"b"},{"0":"c"}]`, toJSON(t, result))
	})

	t.Run("decodes declared legacy charsets", func(t *testing.T) {
		t.Parallel()

		word, err := charmap.Windows1251.NewEncoder().String("Привет")
		require.NoError(t, err)
		html := `<html><head><meta charset="windows-1251"></head><body><table><tr><td>` + word + `</td></tr></table></body></html>`

		result := extract(t, html, htmltable.DefaultConfig())

		v, ok := result.First().Rows[0].Record.Get(htmltable.IndexKey(0))
		assert.True(t, ok)
		assert.Equal(t, "Привет", v)
	})

	t.Run("keeps multi-byte UTF-8 text", func(t *testing.T) {
		t.Parallel()

		html := `<table><tr><th>Город</th></tr><tr><td>Zürich</td></tr></table>`

		result := extract(t, html, htmltable.DefaultConfig())

		assert.Equal(t, `[{"Город":"Zürich"}]`, toJSON(t, result))
	})
}
