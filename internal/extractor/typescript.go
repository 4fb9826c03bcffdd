package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/apidrift/internal/symbols"
)

// typeScriptParser extracts declarations from TypeScript/JavaScript source
// into a symbol registry. JavaScript shares the TypeScript grammar.
type typeScriptParser struct {
	language *sitter.Language
}

// newTypeScriptParser creates a new TypeScript parser.
func newTypeScriptParser() *typeScriptParser {
	return &typeScriptParser{
		language: sitter.NewLanguage(typescript.LanguageTypescript()),
	}
}

// parseFile parses one source file and appends its declarations to the
// registry. filePath is recorded verbatim on every symbol.
func (p *typeScriptParser) parseFile(filePath string, source []byte, reg *symbols.SymbolRegistry) error {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse %s", filePath)
	}
	defer tree.Close()

	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration":
			p.extractFunction(n, source, filePath, reg)
		case "class_declaration":
			p.extractClassMethods(n, source, filePath, reg)
		case "interface_declaration":
			p.extractInterface(n, source, filePath, reg)
		case "type_alias_declaration":
			p.extractTypeAlias(n, source, filePath, reg)
		}
		return true
	})

	return nil
}

// extractFunction extracts a function declaration.
func (p *typeScriptParser) extractFunction(node *sitter.Node, source []byte, filePath string, reg *symbols.SymbolRegistry) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	reg.AddFunction(symbols.FunctionSignature{
		Name:       extractNodeText(nameNode, source),
		Parameters: p.extractParameters(node, source),
		ReturnType: p.extractReturnType(node, source),
		FilePath:   filePath,
		Exported:   isExported(node),
	})
}

// extractClassMethods extracts every method of a class, qualified as
// "ClassName.methodName".
func (p *typeScriptParser) extractClassMethods(node *sitter.Node, source []byte, filePath string, reg *symbols.SymbolRegistry) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := extractNodeText(nameNode, source)

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}

	exported := isExported(node)
	for _, method := range findChildrenByType(body, "method_definition") {
		methodName := method.ChildByFieldName("name")
		if methodName == nil {
			continue
		}

		reg.AddFunction(symbols.FunctionSignature{
			Name:       className + "." + extractNodeText(methodName, source),
			Parameters: p.extractParameters(method, source),
			ReturnType: p.extractReturnType(method, source),
			FilePath:   filePath,
			Exported:   exported,
		})
	}
}

// extractInterface extracts an interface declaration with its property and
// method signatures as normalized strings.
func (p *typeScriptParser) extractInterface(node *sitter.Node, source []byte, filePath string, reg *symbols.SymbolRegistry) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	properties := []string{}
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			child := body.Child(uint(i))
			switch child.Kind() {
			case "property_signature", "method_signature":
				text := strings.TrimSuffix(extractNodeText(child, source), ";")
				properties = append(properties, symbols.NormalizeType(text))
			}
		}
	}

	reg.AddInterface(symbols.InterfaceDefinition{
		Name:       extractNodeText(nameNode, source),
		Properties: properties,
		FilePath:   filePath,
	})
}

// extractTypeAlias extracts a type alias declaration.
func (p *typeScriptParser) extractTypeAlias(node *sitter.Node, source []byte, filePath string, reg *symbols.SymbolRegistry) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	var definition string
	if value := node.ChildByFieldName("value"); value != nil {
		definition = symbols.NormalizeType(extractNodeText(value, source))
	}

	reg.AddType(symbols.TypeAliasDefinition{
		Name:       extractNodeText(nameNode, source),
		Definition: definition,
		FilePath:   filePath,
	})
}

// extractParameters reads the formal parameter list of a function or
// method node.
func (p *typeScriptParser) extractParameters(node *sitter.Node, source []byte) []symbols.ParameterSignature {
	params := []symbols.ParameterSignature{}

	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode == nil {
		return params
	}

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))
		kind := child.Kind()
		if kind != "required_parameter" && kind != "optional_parameter" {
			continue
		}

		patternNode := child.ChildByFieldName("pattern")
		if patternNode == nil {
			continue
		}

		params = append(params, symbols.ParameterSignature{
			Name:     extractNodeText(patternNode, source),
			Type:     annotationText(child.ChildByFieldName("type"), source),
			Optional: kind == "optional_parameter",
		})
	}

	return params
}

// extractReturnType reads the return type annotation, if present.
func (p *typeScriptParser) extractReturnType(node *sitter.Node, source []byte) string {
	return annotationText(node.ChildByFieldName("return_type"), source)
}

// annotationText normalizes a type_annotation node, dropping the leading
// colon.
func annotationText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	text := strings.TrimPrefix(extractNodeText(node, source), ":")
	return symbols.NormalizeType(text)
}

// isExported reports whether a declaration sits inside an export statement.
func isExported(node *sitter.Node) bool {
	parent := node.Parent()
	return parent != nil && parent.Kind() == "export_statement"
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for
// each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}
