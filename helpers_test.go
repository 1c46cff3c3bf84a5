package breadboard_test

import (
	bb "github.com/db47h/breadboard"
	"github.com/pkg/errors"
)

// testPart is a minimal element recording what happens to it.
//
type testPart struct {
	bb.Base
	values  []float64
	starts  int
	stops   int
	errs    int
	failing bool
	data    bb.Data
}

func newTestPart(id int, labels ...string) *testPart {
	if len(labels) == 0 {
		labels = []string{"A", "B"}
	}
	p := new(testPart)
	p.Base = bb.MakeBase(p, "TestPart", id, bb.Point{}, labels...)
	return p
}

func testPartFactory(key string, id int, pos bb.Point) (bb.Element, error) {
	if key != "TestPart" {
		return nil, errors.Wrap(bb.ErrUnknownElement, key)
	}
	p := newTestPart(id)
	p.SetPos(pos)
	return p, nil
}

func (p *testPart) Init(env *bb.Env) error {
	p.Bind(env)
	p.Node(0).AddValueListener(func(v float64, _ *bb.Node) { p.Logic(v) })
	return nil
}

func (p *testPart) Logic(v float64) { p.values = append(p.values, v) }

func (p *testPart) InitSimulation() error {
	p.starts++
	if p.failing {
		return errors.New("boom")
	}
	return nil
}

func (p *testPart) CloseSimulation()       { p.stops++ }
func (p *testPart) HandleConnectionError() { p.errs++ }
func (p *testPart) SaveData() bb.Data      { return p.data }

func (p *testPart) LoadData(d bb.Data) error {
	p.data = d
	return nil
}
