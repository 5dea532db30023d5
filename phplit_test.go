package phplit_test

import (
	"fmt"
	"testing"

	"github.com/KimNorgaard/go-phplit"
	"github.com/stretchr/testify/require"
)

func TestOptionValidation(t *testing.T) {
	_, err := phplit.ParseString("1", phplit.MaxDepth(0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "positive")

	_, err = phplit.ParseString("1", phplit.MaxDepth(-1))
	require.Error(t, err)

	var v any
	require.Error(t, phplit.Unmarshal([]byte("1"), &v, phplit.MaxDepth(0)))
}

func ExampleParseString() {
	v, err := phplit.ParseString(`["name" => "widget", "tags" => ["a", "b"]]`)
	if err != nil {
		panic(err)
	}
	name, _ := v.Index("name").AsString()
	fmt.Println(name)
	fmt.Println(v.Index("tags").Len())
	// Output:
	// widget
	// 2
}

func ExampleUnmarshal() {
	type Config struct {
		Debug bool `phplit:"debug"`
		Port  int  `phplit:"port"`
	}

	var cfg Config
	if err := phplit.Unmarshal([]byte(`["debug" => true, "port" => 8080]`), &cfg); err != nil {
		panic(err)
	}
	fmt.Printf("%+v\n", cfg)
	// Output:
	// {Debug:true Port:8080}
}
