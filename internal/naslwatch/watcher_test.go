package naslwatch

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_BatchesRapidAdds(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	d.SetCallback(func(paths []string) {
		mu.Lock()
		got = append(got, paths...)
		mu.Unlock()
		close(done)
	})

	d.Add("a.nasl")
	d.Add("b.nasl")
	d.Add("a.nasl")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debouncer never flushed")
	}

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(got)
	require.Equal(t, []string{"a.nasl", "b.nasl"}, got)
}

func TestDebouncer_StopPreventsFlush(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	flushed := false
	d.SetCallback(func([]string) { flushed = true })

	d.Add("a.nasl")
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	require.False(t, flushed)
}

func TestIsPluginPath(t *testing.T) {
	require.True(t, isPluginPath("/feed/foo.nasl"))
	require.True(t, isPluginPath("/feed/foo.inc"))
	require.False(t, isPluginPath("/feed/README.md"))
}
