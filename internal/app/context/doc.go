// Package context stages writes to workspace state so a multi-document
// change lands completely or not at all.
//
// Actions are added to a Batch and run in order by Commit. When one fails,
// the ones that already ran are rolled back in reverse order:
//
//	b := context.NewBatch()
//	for key, payload := range docs {
//	    _ = b.Add(&context.SaveStateAction{Store: store, Workspace: ws, Key: key, Payload: payload})
//	}
//
//	if err := b.Commit(ctx); err != nil {
//	    // the workspace holds what it held before Commit
//	}
//
// Rollback is best effort. A rollback that itself fails is reported next to
// the original error.
package context
