/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package signatures

import (
	"fmt"
	"io/fs"

	"github.com/goccy/go-yaml"
	yamlast "github.com/goccy/go-yaml/ast"

	"github.com/onflow/jgen/ast"
	"github.com/onflow/jgen/common"
	"github.com/onflow/jgen/common/orderedmap"
	"github.com/onflow/jgen/sema"
)

// Source is a signature source backed by YAML signature files.
//
// A signature file declares the classes of one package:
//
//	package: test
//	classes:
//	  - name: Box
//	    flags: [public]
//	    typeParameters: [T extends Number]
//	    fields:
//	      - name: value
//	        type: T
//	    methods:
//	      - name: get
//	        returns: T
//	    classes:
//	      - name: Entry
//	        flags: [public, static]
//
// Type expressions use the source language syntax.
// Type expressions containing commas must be written as block sequence entries,
// and wildcards at the start of a scalar must be quoted.
type Source struct {
	classes *orderedmap.OrderedMap[string, sourceClass]
	files   map[string][]byte
}

var _ sema.SignatureSource = &Source{}

type sourceClass struct {
	signature *sema.ClassSignature
	file      string
}

func NewSource() *Source {
	return &Source{
		classes: &orderedmap.OrderedMap[string, sourceClass]{},
		files:   map[string][]byte{},
	}
}

// ClassSignature returns the signature of the class with the given qualified name,
// or nil if no loaded file declares it.
func (s *Source) ClassSignature(qualifiedName string) (*sema.ClassSignature, error) {
	class, ok := s.classes.Get(qualifiedName)
	if !ok {
		return nil, nil
	}
	return class.signature, nil
}

// ClassNames returns the qualified names of all loaded classes, in declaration order.
func (s *Source) ClassNames() []string {
	return s.classes.Keys()
}

// File returns the name and the code of the file which declares the given class.
func (s *Source) File(qualifiedName string) (name string, code []byte, ok bool) {
	class, ok := s.classes.Get(qualifiedName)
	if !ok {
		return "", nil, false
	}
	return class.file, s.files[class.file], true
}

// LoadFS loads all signature files of the file system which match the pattern.
func (s *Source) LoadFS(fsys fs.FS, pattern string) error {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return err
	}

	for _, name := range names {
		code, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		err = s.Load(name, code)
		if err != nil {
			return err
		}
	}

	return nil
}

// Load parses the signature file and adds its classes to the source.
// Nothing is added if the file is invalid.
func (s *Source) Load(name string, code []byte) error {
	if _, ok := s.files[name]; ok {
		return fmt.Errorf("signature file %q is already loaded", name)
	}

	classes, err := parseSignatureFile(name, code, s.classes)
	if err != nil {
		return &LoadError{
			Name: name,
			Code: code,
			Err:  err,
		}
	}

	s.files[name] = code
	for _, signature := range classes {
		s.classes.Set(signature.Name, sourceClass{
			signature: signature,
			file:      name,
		})
	}

	return nil
}

type signatureFile struct {
	Package string       `yaml:"package"`
	Classes yamlast.Node `yaml:"classes"`
}

type signatureFileParser struct {
	fileName    string
	packageName string
	existing    *orderedmap.OrderedMap[string, sourceClass]
	classes     []*sema.ClassSignature
	declared    map[string]struct{}
}

func parseSignatureFile(
	fileName string,
	code []byte,
	existing *orderedmap.OrderedMap[string, sourceClass],
) (
	[]*sema.ClassSignature,
	error,
) {
	var file signatureFile
	err := yaml.UnmarshalWithOptions(code, &file, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	parser := &signatureFileParser{
		fileName:    fileName,
		packageName: file.Package,
		existing:    existing,
		declared:    map[string]struct{}{},
	}

	classNodes, err := nodeAsList(file.Classes)
	if err != nil {
		return nil, err
	}

	for _, classNode := range classNodes {
		err := parser.parseClass(classNode, "")
		if err != nil {
			return nil, err
		}
	}

	return parser.classes, nil
}

var classKeys = []string{
	"name",
	"kind",
	"flags",
	"typeParameters",
	"super",
	"interfaces",
	"fields",
	"constructors",
	"methods",
	"constants",
	"elements",
	"classes",
}

func (p *signatureFileParser) parseClass(node yamlast.Node, outer string) error {
	values, err := nodeAsKeyValues(node, classKeys...)
	if err != nil {
		return err
	}

	name, nameNode, err := requiredString(values, "name", node)
	if err != nil {
		return err
	}
	if !isIdentifier(name) {
		return NewParsingError(fmt.Sprintf("invalid class name %#q", name), nameNode)
	}

	qualifiedName := qualify(p.packageName, name)
	if outer != "" {
		qualifiedName = qualify(outer, name)
	}

	if _, ok := p.declared[qualifiedName]; ok || p.existing.Contains(qualifiedName) {
		return NewParsingError(fmt.Sprintf("class %s is already declared", qualifiedName), nameNode)
	}
	p.declared[qualifiedName] = struct{}{}

	signature := &sema.ClassSignature{
		Name:  qualifiedName,
		Kind:  common.ClassKindClass,
		Outer: outer,
		Range: valueRange(nameNode, name),
	}

	if kindNode, ok := values["kind"]; ok {
		signature.Kind, err = parseClassKind(kindNode)
		if err != nil {
			return err
		}
	}

	signature.Flags, err = parseFlags(values["flags"])
	if err != nil {
		return err
	}

	signature.TypeParameters, err = parseTypeParameters(values["typeParameters"])
	if err != nil {
		return err
	}

	if superNode := values["super"]; !isNull(superNode) {
		signature.SuperType, err = parseTypeExpression(superNode, false)
		if err != nil {
			return err
		}
	}

	signature.Interfaces, err = parseTypeExpressions(values["interfaces"], false)
	if err != nil {
		return err
	}

	signature.Fields, err = parseList(values["fields"], parseField)
	if err != nil {
		return err
	}

	signature.Constructors, err = parseList(values["constructors"], parseConstructor)
	if err != nil {
		return err
	}

	signature.Methods, err = parseList(values["methods"], parseMethod)
	if err != nil {
		return err
	}

	if constantsNode := values["constants"]; !isNull(constantsNode) {
		if signature.Kind != common.ClassKindEnum {
			return NewParsingError("only enums may declare constants", constantsNode)
		}
		signature.EnumConstants, err = parseList(constantsNode, parseIdentifier)
		if err != nil {
			return err
		}
	}

	if elementsNode := values["elements"]; !isNull(elementsNode) {
		if signature.Kind != common.ClassKindAnnotation {
			return NewParsingError("only annotation types may declare elements", elementsNode)
		}
		signature.AnnotationElements, err = parseList(elementsNode, parseAnnotationElement)
		if err != nil {
			return err
		}
	}

	p.classes = append(p.classes, signature)

	nestedNodes, err := nodeAsList(values["classes"])
	if err != nil {
		return err
	}

	for _, nestedNode := range nestedNodes {
		err := p.parseClass(nestedNode, qualifiedName)
		if err != nil {
			return err
		}
	}

	return nil
}

func parseClassKind(node yamlast.Node) (common.ClassKind, error) {
	keyword, err := nodeAsString(node)
	if err != nil {
		return common.ClassKindUnknown, err
	}

	if keyword == "annotation" {
		return common.ClassKindAnnotation, nil
	}

	kind, ok := common.ClassKindNamed(keyword)
	if !ok {
		return common.ClassKindUnknown, NewParsingError(
			fmt.Sprintf("unknown class kind %#q", keyword),
			node,
		)
	}

	return kind, nil
}

func parseFlags(node yamlast.Node) (common.Flags, error) {
	flagNodes, err := nodeAsList(node)
	if err != nil {
		return common.NoFlags, err
	}

	flags := common.NoFlags

	for _, flagNode := range flagNodes {
		name, err := nodeAsString(flagNode)
		if err != nil {
			return common.NoFlags, err
		}

		flag, ok := common.FlagNamed(name)
		if !ok {
			return common.NoFlags, NewParsingError(
				fmt.Sprintf("unknown modifier %#q", name),
				flagNode,
			)
		}

		if flags.Contains(flag) {
			return common.NoFlags, NewParsingError(
				fmt.Sprintf("duplicate modifier %#q", name),
				flagNode,
			)
		}

		flags = flags.Set(flag)
	}

	if access := flags.Access(); access != common.NoFlags &&
		access != common.FlagPublic &&
		access != common.FlagProtected &&
		access != common.FlagPrivate {

		return common.NoFlags, NewParsingError(
			fmt.Sprintf("conflicting access modifiers %#q", access),
			node,
		)
	}

	return flags, nil
}

func parseList[T any](node yamlast.Node, parse func(yamlast.Node) (T, error)) ([]T, error) {
	nodes, err := nodeAsList(node)
	if err != nil {
		return nil, err
	}

	var result []T
	for _, element := range nodes {
		value, err := parse(element)
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}

	return result, nil
}

func parseIdentifier(node yamlast.Node) (string, error) {
	name, err := nodeAsString(node)
	if err != nil {
		return "", err
	}
	if !isIdentifier(name) {
		return "", NewParsingError(fmt.Sprintf("invalid name %#q", name), node)
	}
	return name, nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	reader := &typeExpressionReader{input: name}
	identifier, err := reader.readIdentifier()
	return err == nil && identifier == name
}

func parseTypeExpression(node yamlast.Node, allowVariableArity bool) (sema.TypeExpression, error) {
	input, err := nodeAsString(node)
	if err != nil {
		return nil, err
	}
	return readTypeExpression(input, nodePosition(node), node.GetPath(), allowVariableArity)
}

func parseTypeExpressions(node yamlast.Node, allowVariableArity bool) ([]sema.TypeExpression, error) {
	return parseList(node, func(node yamlast.Node) (sema.TypeExpression, error) {
		return parseTypeExpression(node, allowVariableArity)
	})
}

func parseTypeParameters(node yamlast.Node) ([]sema.TypeParameterSignature, error) {
	return parseList(node, func(node yamlast.Node) (sema.TypeParameterSignature, error) {
		input, err := nodeAsString(node)
		if err != nil {
			return sema.TypeParameterSignature{}, err
		}
		return readTypeParameter(input, nodePosition(node), node.GetPath())
	})
}

var fieldKeys = []string{"name", "flags", "type"}

func parseField(node yamlast.Node) (sema.FieldSignature, error) {
	values, err := nodeAsKeyValues(node, fieldKeys...)
	if err != nil {
		return sema.FieldSignature{}, err
	}

	name, nameNode, err := requiredString(values, "name", node)
	if err != nil {
		return sema.FieldSignature{}, err
	}

	flags, err := parseFlags(values["flags"])
	if err != nil {
		return sema.FieldSignature{}, err
	}

	typeNode, ok := values["type"]
	if !ok {
		return sema.FieldSignature{}, missingKeyError("type", node)
	}

	fieldType, err := parseTypeExpression(typeNode, false)
	if err != nil {
		return sema.FieldSignature{}, err
	}

	return sema.FieldSignature{
		Name:  name,
		Flags: flags,
		Type:  fieldType,
		Range: valueRange(nameNode, name),
	}, nil
}

var methodKeys = []string{"name", "flags", "typeParameters", "returns", "formals", "throws"}

var constructorKeys = []string{"flags", "typeParameters", "formals", "throws"}

func parseMethod(node yamlast.Node) (sema.ProcedureSignature, error) {
	values, err := nodeAsKeyValues(node, methodKeys...)
	if err != nil {
		return sema.ProcedureSignature{}, err
	}

	name, nameNode, err := requiredString(values, "name", node)
	if err != nil {
		return sema.ProcedureSignature{}, err
	}

	signature, err := parseProcedure(values)
	if err != nil {
		return sema.ProcedureSignature{}, err
	}

	signature.Name = name
	signature.Range = valueRange(nameNode, name)

	returnNode, ok := values["returns"]
	if !ok || isNull(returnNode) {
		signature.ReturnType = &sema.NamedTypeExpression{
			Name:  sema.VoidType.String(),
			Range: signature.Range,
		}
	} else {
		signature.ReturnType, err = parseTypeExpression(returnNode, false)
		if err != nil {
			return sema.ProcedureSignature{}, err
		}
	}

	return signature, nil
}

func parseConstructor(node yamlast.Node) (sema.ProcedureSignature, error) {
	values, err := nodeAsKeyValues(node, constructorKeys...)
	if err != nil {
		return sema.ProcedureSignature{}, err
	}

	signature, err := parseProcedure(values)
	if err != nil {
		return sema.ProcedureSignature{}, err
	}

	position := nodePosition(node)
	signature.Range = ast.NewRange(position, position)

	return signature, nil
}

func parseProcedure(values keyValues) (signature sema.ProcedureSignature, err error) {
	signature.Flags, err = parseFlags(values["flags"])
	if err != nil {
		return
	}

	signature.TypeParameters, err = parseTypeParameters(values["typeParameters"])
	if err != nil {
		return
	}

	signature.Formals, err = parseTypeExpressions(values["formals"], true)
	if err != nil {
		return
	}

	signature.Throws, err = parseTypeExpressions(values["throws"], false)
	return
}

var elementKeys = []string{"name", "type", "default"}

func parseAnnotationElement(node yamlast.Node) (sema.AnnotationElementSignature, error) {
	values, err := nodeAsKeyValues(node, elementKeys...)
	if err != nil {
		return sema.AnnotationElementSignature{}, err
	}

	name, nameNode, err := requiredString(values, "name", node)
	if err != nil {
		return sema.AnnotationElementSignature{}, err
	}

	typeNode, ok := values["type"]
	if !ok {
		return sema.AnnotationElementSignature{}, missingKeyError("type", node)
	}

	elementType, err := parseTypeExpression(typeNode, false)
	if err != nil {
		return sema.AnnotationElementSignature{}, err
	}

	var hasDefault bool
	if defaultNode, ok := values["default"]; ok {
		hasDefault, err = nodeAsBool(defaultNode)
		if err != nil {
			return sema.AnnotationElementSignature{}, err
		}
	}

	return sema.AnnotationElementSignature{
		Name:       name,
		Type:       elementType,
		HasDefault: hasDefault,
		Range:      valueRange(nameNode, name),
	}, nil
}

// qualify prefixes the name with the package name, if any.
func qualify(packageName, name string) string {
	if packageName == "" {
		return name
	}
	return packageName + "." + name
}
