package layout

import (
	"testing"

	"github.com/google/uuid"
)

func TestRenderCacheFirstFrameRendersAll(t *testing.T) {
	rc := NewRenderCache()
	id := uuid.New()
	if !rc.ShouldRender(id, 100) {
		t.Fatal("无脏块时（首帧）应全部绘制")
	}
}

func TestRenderCachePartialRedraw(t *testing.T) {
	rc := NewRenderCache()
	dirty := make([]uuid.UUID, 3)
	for i := range dirty {
		dirty[i] = uuid.New()
		rc.MarkDirty(dirty[i])
	}
	clean := uuid.New()

	// 3/100 = 0.03 ≤ 0.05：只重绘脏块
	for _, id := range dirty {
		if !rc.ShouldRender(id, 100) {
			t.Fatal("脏块应被绘制")
		}
	}
	if rc.ShouldRender(clean, 100) {
		t.Fatal("脏块占比低时干净块应跳过")
	}
}

func TestRenderCacheThresholdForcesFullRedraw(t *testing.T) {
	rc := NewRenderCache()
	for i := 0; i < 6; i++ {
		rc.MarkDirty(uuid.New())
	}
	// 6/100 = 0.06 > 0.05：全量重绘
	if !rc.ShouldRender(uuid.New(), 100) {
		t.Fatal("脏块占比过高时应全量重绘")
	}
}

func TestRenderCacheClear(t *testing.T) {
	rc := NewRenderCache()
	id := uuid.New()
	rc.MarkDirty(id)
	rc.Clear()
	if rc.IsDirty(id) {
		t.Fatal("Clear 后不应再有脏块")
	}
	if rc.DirtyRatio(10) != 0 {
		t.Fatal("Clear 后脏块占比应为 0")
	}
}

func TestRenderCacheDirtyRatioEmptyLayout(t *testing.T) {
	rc := NewRenderCache()
	rc.MarkDirty(uuid.New())
	if rc.DirtyRatio(0) != 0 {
		t.Fatal("总块数为 0 时占比应为 0")
	}
}
