package layout

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
)

// Asset 描述一份插图资源：固有尺寸与显示尺寸（像素）。
type Asset struct {
	Key           string  `json:"key"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	DisplayWidth  float64 `json:"displayWidth"`
	DisplayHeight float64 `json:"displayHeight"`
}

// 无法解码资源时使用的默认固有尺寸。
const (
	defaultAssetWidth  = 320.0
	defaultAssetHeight = 180.0
)

// AssetCache 按 key 记忆插图的固有尺寸。
// key 指向可解码的本地图片（png/jpeg/gif）时读取真实尺寸，
// 否则使用默认尺寸。并发安全。
type AssetCache struct {
	mu      sync.Mutex
	entries map[string]Asset
}

// NewAssetCache 创建空的资源缓存。
func NewAssetCache() *AssetCache {
	return &AssetCache{entries: map[string]Asset{}}
}

// Load 返回 key 对应的资源，首次访问时探测尺寸并缓存。
func (c *AssetCache) Load(key string) Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	if asset, ok := c.entries[key]; ok {
		return asset
	}
	w, h := probeImageSize(key)
	asset := Asset{
		Key:           key,
		Width:         w,
		Height:        h,
		DisplayWidth:  w,
		DisplayHeight: h,
	}
	c.entries[key] = asset
	return asset
}

// Resize 调整已缓存资源的显示尺寸，最小 1px。
func (c *AssetCache) Resize(key string, width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	asset, ok := c.entries[key]
	if !ok {
		return
	}
	asset.DisplayWidth = max(width, 1.0)
	asset.DisplayHeight = max(height, 1.0)
	c.entries[key] = asset
}

// Register 显式登记一份资源的固有尺寸，覆盖探测结果。
func (c *AssetCache) Register(key string, width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Asset{
		Key:           key,
		Width:         max(width, 1.0),
		Height:        max(height, 1.0),
		DisplayWidth:  max(width, 1.0),
		DisplayHeight: max(height, 1.0),
	}
}

func probeImageSize(key string) (float64, float64) {
	f, err := os.Open(key)
	if err != nil {
		return defaultAssetWidth, defaultAssetHeight
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return defaultAssetWidth, defaultAssetHeight
	}
	return float64(cfg.Width), float64(cfg.Height)
}
