package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleBuilder() {
	b := graph.NewBuilder()
	hub, _ := b.AddNode("hub", geom.Circle(20))
	leaf, _ := b.AddNode("leaf", geom.Rectangle(40, 20))
	_ = b.Connect(hub, leaf)

	g := b.Build()
	fmt.Println(g.Len(), g.EdgeCount())
	fmt.Println(g.HasEdge(leaf, hub), g.Adjacent(leaf, hub))
	// Output:
	// 2 1
	// false true
}

func ExampleTree() {
	pool := graph.NewLabelPool([]string{"r", "a", "b", "c"})
	g, err := graph.Tree(pool, 2, 3, geom.DefaultShape())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for i := range g.Len() {
		fmt.Println(g.Label(i), len(g.Neighbors(i)))
	}

	_, err = graph.Tree(pool, 2, 1, geom.DefaultShape())
	fmt.Println(err)
	// Output:
	// r 3
	// a 1
	// b 1
	// c 1
	// POOL_EXHAUSTED: tree of depth 2 with 1 branches needs more than the 0 labels left in the pool
}

func ExampleWrite() {
	b := graph.NewBuilder()
	a, _ := b.AddNode("a", geom.Circle(20))
	c, _ := b.AddNode("b", geom.Circle(10))
	_ = b.Connect(a, c)

	var buf bytes.Buffer
	if err := graph.Write(b.Build(), &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "shape": {
	//         "kind": "circle",
	//         "radius": 20
	//       }
	//     },
	//     {
	//       "id": "b",
	//       "shape": {
	//         "kind": "circle",
	//         "radius": 10
	//       }
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "a",
	//       "to": "b"
	//     }
	//   ]
	// }
}
