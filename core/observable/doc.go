// Package observable provides an ordered container that notifies subscribers of
// index-accurate mutations.
//
// An Array emits one Event per primitive mutation (insert-at, delete-at,
// update-at). Events are delivered synchronously, after the mutation has been
// applied, so an observer reading the array from inside its callback sees the
// post-mutation state.
//
// # Usage
//
//	arr := observable.NewArray([]string{"a", "b"})
//	cancel := arr.Subscribe(func(ev observable.Event[string]) {
//	    fmt.Println(ev.Kind, ev.Index, ev.Value)
//	})
//	defer cancel()
//	arr.Insert(1, "x")
package observable
