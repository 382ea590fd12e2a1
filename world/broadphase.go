package world

import (
	"cmp"
	"slices"

	"github.com/plus3/rigid/geom"
	"github.com/plus3/rigid/object"
)

type proxy struct {
	obj    object.WorldObject
	uid    object.Uid
	box    geom.AABB
	static bool
	parent object.Uid
}

// BroadPhase finds the objects whose margin-loosened bounds overlap with a
// sweep along the x axis. Objects are borrowed one at a time.
type BroadPhase struct {
	proxies []proxy
}

func (b *BroadPhase) Execute(frame *StepFrame) error {
	b.proxies = b.proxies[:0]
	for uid, obj := range frame.World.Objects() {
		p := proxy{obj: obj, uid: uid}
		if h, ok := obj.AsRigidBody(); ok {
			h.View(func(rb *object.RigidBody) { p.static = rb.IsStatic() })
		} else {
			obj.UnwrapSensor().View(func(s *object.Sensor) {
				if parent := s.Parent(); parent != nil {
					p.parent = parent.Uid()
				}
			})
		}
		view := obj.Borrow()
		p.box = view.AABB()
		view.Release()
		b.proxies = append(b.proxies, p)
	}

	slices.SortFunc(b.proxies, func(x, y proxy) int {
		return cmp.Compare(x.box.Min.X(), y.box.Min.X())
	})

	pairs := frame.Pairs[:0]
	for i := range b.proxies {
		pi := &b.proxies[i]
		for j := i + 1; j < len(b.proxies); j++ {
			pj := &b.proxies[j]
			if pj.box.Min.X() > pi.box.Max.X() {
				break
			}
			if !collidable(pi, pj) || !pi.box.Intersects(pj.box) {
				continue
			}
			if pi.uid < pj.uid {
				pairs = append(pairs, Pair{A: pi.obj, B: pj.obj})
			} else {
				pairs = append(pairs, Pair{A: pj.obj, B: pi.obj})
			}
		}
	}

	slices.SortFunc(pairs, func(x, y Pair) int {
		if c := cmp.Compare(x.A.Uid(), y.A.Uid()); c != 0 {
			return c
		}
		return cmp.Compare(x.B.Uid(), y.B.Uid())
	})
	frame.Pairs = pairs
	clear(b.proxies)
	return nil
}

func collidable(a, b *proxy) bool {
	sa, sb := a.obj.IsSensor(), b.obj.IsSensor()
	switch {
	case sa && sb:
		return false
	case sa:
		return a.parent != b.uid
	case sb:
		return b.parent != a.uid
	default:
		return !(a.static && b.static)
	}
}
