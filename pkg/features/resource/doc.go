// Package resource provides async data cells with an explicit loading state
// machine on top of the pulse reactive core.
//
// A resource owns one signal holding its State: Idle, Loading, Ready or
// Error. Refetch transitions to Loading synchronously, runs the fetcher on
// its own goroutine, and applies Ready or Error through the runtime's
// scheduler. Late results from superseded fetches are dropped.
//
//	user := resource.New(rt,
//	    func() int { return userID.Get() },
//	    func(ctx context.Context, id int) (*User, error) {
//	        return db.Users.Find(ctx, id)
//	    },
//	).AutoRefetch().Eager()
//
//	view := resource.Match(user,
//	    resource.OnLoading[*User, string](func() string { return "loading" }),
//	    resource.OnReady[*User, string](func(u *User) string { return u.Name }),
//	    resource.OnError[*User, string](func(err error) string { return err.Error() }),
//	)
package resource
