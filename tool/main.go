// tool generates the AST node boilerplate (marker method plus the
// Pos accessor) from a small declaration DSL, one `node Name;` per
// AST shape.
//
// usage: tool <decls-file> <output.go> <package>
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

const typesPackage = "github.com/efu-lang/efugo/types"

type NodeDecls struct {
	Declarations []*NodeDecl `@@*`
}

type NodeDecl struct {
	Name string `"node" @Ident ";"`
}

// GenerateNodes renders the marker and position boilerplate for every
// declared node shape.
func GenerateNodes(pkgname string, decls *NodeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by tool; DO NOT EDIT.")
	f.ImportName(typesPackage, "types")

	for _, decl := range decls.Declarations {
		f.Func().Params(Id("v").Op("*").Id(decl.Name)).Id("isNode").Params().Block()
		f.Func().Params(Id("v").Op("*").Id(decl.Name)).Id("Pos").Params().Qual(typesPackage, "Position").Block(
			Return(Id("v").Dot("Position")),
		)
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&NodeDecls{})

	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: tool <decls-file> <output.go> <package>")
		os.Exit(1)
	}

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := os.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := NodeDecls{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}

	err = os.WriteFile(out, []byte(GenerateNodes(pkgname, &decls)), 0o644)
	if err != nil {
		panic(err)
	}
}
