/*
This package enforces at-most-one-instance-per-key on object construction.
Construction calls are routed through an Interceptor instead of being made
directly; the interceptor decides on every call whether an existing instance
should be returned or a new one built, and guarantees under concurrent use
that allocation and initialization run at most once per key.

How to use:

	type Journal struct {
		path string
	}

	func newJournal(path string) (*Journal, error) {
		// open files, warm caches, whatever construction really does
		return &Journal{path: path}, nil
	}

	journal, err := singleton.Construct[*Journal](singleton.Default(), newJournal, "/var/log/app")
	if err != nil {
		// handle error
	}

	// every further call observes the same instance, newJournal is not called again
	same, _ := singleton.Construct[*Journal](singleton.Default(), newJournal, "/var/log/app")

By default each exact governed type owns a single slot: one instance per
type, constructor arguments ignored as a key. A type customizes its key and
storage semantics by implementing ReferenceAccessor, all three methods or
none:

	type Pool struct {
		id string
	}

	var pools sync.Map

	func (p *Pool) LookupRef(_ reflect.Type, args ...any) (any, error) {
		if v, ok := pools.Load(args[0].(string)); ok {
			return v, nil
		}
		return nil, nil
	}

	func (p *Pool) StoreRef(_ reflect.Type, instance any, args ...any) error {
		pools.Store(args[0].(string), instance)
		return nil
	}

	func (p *Pool) DetachRef(instance any) error {
		pools.Delete(instance.(*Pool).id)
		return nil
	}

Now Construct[*Pool](in, newPool, "a") and Construct[*Pool](in, newPool, "b")
yield two instances, one per id, each stable across calls. Implementing only
one or two of the methods is a configuration error, reported by CheckType or
at the first construction attempt.

Detach removes the instance's registration so the next construction call
builds a replacement; references already held stay valid:

	_ = in.Detach(journal)
	fresh, _ := singleton.Construct[*Journal](in, newJournal, "/var/log/app") // new instance

Functions:
  - singleton.New
  - singleton.Default
  - singleton.Construct
  - singleton.MustConstruct
  - singleton.CheckType
  - singleton.SetDefaultErrorLogger

Constructor types that can be used:
  - func(T1, T2, ...) [T|(T, error)|(T, func(), error)]

A func() cleanup returned by a constructor is called when the instance is
detached or the interceptor is reset.
*/
package singleton
