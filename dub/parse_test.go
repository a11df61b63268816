package dub

import (
	"fmt"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input string
		want  Command
	}
	tests := []test{
		{
			input: "set bits 8",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("bits"), Number(8)},
			},
		},
		{
			input: "set level -3.5",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("level"), Number(-3.5)},
			},
		},
		{
			input: "loop a 2 [60 [62 64] (60 67)]",
			want: Command{
				Name: Identifier("loop"),
				Args: []Node{
					Identifier("a"),
					Number(2),
					Array{
						Number(60),
						Array{Number(62), Number(64)},
						Tuple{Number(60), Number(67)},
					},
				},
			},
		},
		{
			input: "loop a 1 []",
			want: Command{
				Name: Identifier("loop"),
				Args: []Node{Identifier("a"), Number(1), Array{}},
			},
		},
		{
			input: `load "a/file.mid"`,
			want: Command{
				Name: Identifier("load"),
				Args: []Node{String("a/file.mid")},
			},
		},
		{
			input: `load ""`,
			want: Command{
				Name: Identifier("load"),
				Args: []Node{String("")},
			},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		got, err := Parse(test.input)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("\nwant: %+v\ngot:  %+v", test.want, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"1 2",
		"loop a [60",
		"loop a 60]",
		"loop a (60]",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func TestNodeString(t *testing.T) {
	node := Array{Number(60), Tuple{Number(0.5), String("x")}, Identifier("a")}
	if want, got := `[60 (0.5 "x") a]`, fmt.Sprint(node); want != got {
		t.Errorf("want %s, got %s", want, got)
	}
}
