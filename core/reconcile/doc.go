// Package reconcile mirrors a push-based, two-level change source (sections of
// items) into observable ordered containers.
//
// The upstream source reports changes in batches: a begin signal, any number of
// section and item notifications, then an end signal. Nothing is applied while
// a batch is open. On end, staged changes are applied with primitive
// insert-at, delete-at and update-at operations in a fixed order so that every
// observer sees a valid index space at each step.
//
// # Architecture
//
// 1. Section: the item reconciler. It owns the items of one section, stages
// inserts, deletes and updates, and applies them on EndBatch: inserts
// ascending by target, then deletes descending, then in-place updates.
//
// 2. Results: the section reconciler. It owns the sections, stages section
// inserts and deletes, routes item notifications to the owning Section, and on
// EndBatch splices sections in and out before completing each child batch.
//
// 3. Source and Delegate: the boundary with the upstream change source. The
// source delivers an initial snapshot through Fetch and then calls the
// Delegate methods (implemented by Results) directly.
//
// # Index spaces
//
// Insert targets are positions in the intermediate sequence with all inserts
// applied. Delete indices are applied to that same intermediate sequence in
// descending order, so a source that wants a specific final layout expresses
// deletes in intermediate positions. Update indices are applied last and refer
// to the final sequence. When routing item notifications, the section of an
// original index path is resolved against the sections at batch start and the
// section of a new index path against the projected post-batch layout.
//
// # Contract violations
//
// Nested batches, staging outside a batch, conflicting indices and malformed
// notifications mean the source broke the notification protocol. They panic
// with a *ContractViolation rather than returning an error.
//
// # Usage Example
//
//	results, err := reconcile.New[*models.Item](ctx, source, reconcile.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer results.Close()
//
//	results.Subscribe(func(ev observable.Event[*reconcile.Section[*models.Item]]) {
//	    log.Info("section changed", zap.Stringer("kind", ev.Kind), zap.Int("index", ev.Index))
//	})
package reconcile
