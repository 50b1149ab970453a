package memo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/lineup/internal/domain/lineup"
)

func result(total float64) *lineup.Lineup {
	return &lineup.Lineup{Total: total, Status: lineup.StatusOptimal}
}

func TestCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty cache", t, func() {
		c := NewInMemoryCache()

		Convey("a miss returns false", func() {
			_, ok := c.Get(ctx, "absent")
			So(ok, ShouldBeFalse)
			So(c.Size(), ShouldEqual, 0)
		})

		Convey("a put is retrievable", func() {
			c.Put(ctx, "k1", result(100))
			got, ok := c.Get(ctx, "k1")
			So(ok, ShouldBeTrue)
			So(got.Total, ShouldEqual, 100)
			So(c.Size(), ShouldEqual, 1)
		})

		Convey("re-putting a key replaces its value without growing", func() {
			c.Put(ctx, "k1", result(100))
			c.Put(ctx, "k1", result(200))
			got, ok := c.Get(ctx, "k1")
			So(ok, ShouldBeTrue)
			So(got.Total, ShouldEqual, 200)
			So(c.Size(), ShouldEqual, 1)
		})
	})

	Convey("Given a bounded cache at capacity", t, func() {
		c := NewInMemoryCache(WithMaxSize(2))
		c.Put(ctx, "k1", result(1))
		c.Put(ctx, "k2", result(2))

		Convey("a new key evicts the oldest entry", func() {
			c.Put(ctx, "k3", result(3))
			_, ok := c.Get(ctx, "k1")
			So(ok, ShouldBeFalse)
			_, ok = c.Get(ctx, "k2")
			So(ok, ShouldBeTrue)
			_, ok = c.Get(ctx, "k3")
			So(ok, ShouldBeTrue)
			So(c.Size(), ShouldEqual, 2)
		})
	})

	Convey("Given an unbounded cache", t, func() {
		c := NewInMemoryCache(WithMaxSize(0))
		for i := 0; i < 100; i++ {
			c.Put(ctx, fmt.Sprintf("k%d", i), result(float64(i)))
		}

		Convey("nothing is evicted", func() {
			So(c.Size(), ShouldEqual, 100)
			_, ok := c.Get(ctx, "k0")
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Concurrent puts and gets do not race", t, func() {
		c := NewInMemoryCache(WithMaxSize(16))
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					key := fmt.Sprintf("k%d", j%32)
					c.Put(ctx, key, result(float64(j)))
					c.Get(ctx, key)
				}
			}(i)
		}
		wg.Wait()
		So(c.Size(), ShouldBeLessThanOrEqualTo, 16)
	})
}
