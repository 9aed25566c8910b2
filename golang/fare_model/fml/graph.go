package fml

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
)

//GraphFormats maps file extensions to graphviz output formats.
var GraphFormats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
	"dot": graphviz.XDOT,
}

type graphBuilder struct {
	graph *cgraph.Graph
	count int
}

func (b *graphBuilder) node(label, shape string) (*cgraph.Node, error) {
	b.count++
	node, err := b.graph.CreateNode(fmt.Sprint(b.count))
	if err != nil {
		return nil, err
	}
	node.Set("label", label)
	if shape != "" {
		node.Set("shape", shape)
	}
	return node, nil
}

func (b *graphBuilder) edge(from, to *cgraph.Node) error {
	_, err := b.graph.CreateEdge("", from, to)
	return err
}

//draw adds the transformer below parent and returns the nodes its output leaves from.
func (b *graphBuilder) draw(transformer Transformer, parents []*cgraph.Node) ([]*cgraph.Node, error) {
	switch typed := transformer.(type) {
	case *ColumnTransformer:
		var outputs []*cgraph.Node
		for _, route := range typed.Routes {
			columns, err := b.node(strings.Join(route.Columns, "\\n"), "note")
			if err != nil {
				return nil, err
			}
			for _, parent := range parents {
				if err := b.edge(parent, columns); err != nil {
					return nil, err
				}
			}
			last, err := b.draw(route.Transformer, []*cgraph.Node{columns})
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, last...)
		}
		return outputs, nil
	case Chain:
		current := parents
		for _, step := range typed.Steps {
			node, err := b.node(step.Name+"\\n"+step.Transformer.Name(), "box")
			if err != nil {
				return nil, err
			}
			for _, parent := range current {
				if err := b.edge(parent, node); err != nil {
					return nil, err
				}
			}
			current = []*cgraph.Node{node}
		}
		return current, nil
	default:
		node, err := b.node(transformer.Name(), "box")
		if err != nil {
			return nil, err
		}
		for _, parent := range parents {
			if err := b.edge(parent, node); err != nil {
				return nil, err
			}
		}
		return []*cgraph.Node{node}, nil
	}
}

//DrawGraph lays out the pipeline: input, every route with its steps, then the regressor.
//The caller closes the returned graphviz handle.
func (p *Pipeline) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}
	builder := &graphBuilder{graph: graph}

	input := "input"
	if p.fitted {
		input = fmt.Sprintf("input\\n%d columns", len(p.schema))
	}
	root, err := builder.node(input, "ellipse")
	if err != nil {
		return nil, nil, err
	}
	leaves, err := builder.draw(p.Preprocessor, []*cgraph.Node{root})
	if err != nil {
		return nil, nil, err
	}
	model, err := builder.node(p.Model.Name(), "doublecircle")
	if err != nil {
		return nil, nil, err
	}
	for _, leaf := range leaves {
		if err := builder.edge(leaf, model); err != nil {
			return nil, nil, err
		}
	}
	return graphViz, graph, nil
}

//RenderGraph writes the pipeline picture to filename. The format comes from the extension.
func (p *Pipeline) RenderGraph(filename string) error {
	ext := filename[strings.LastIndex(filename, ".")+1:]
	format, ok := GraphFormats[ext]
	if !ok {
		return errors.Errorf("unknown graph format %q", ext)
	}
	graphViz, graph, err := p.DrawGraph()
	if err != nil {
		return errors.Wrap(err, "draw pipeline")
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()
	return errors.Wrapf(graphViz.RenderFilename(graph, format, filename), "render %s", filename)
}
