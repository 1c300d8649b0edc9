package surface

import "github.com/gogpu/gputypes"

// PreferredFormat picks a surface format from the available list,
// preferring sRGB BGRA, then sRGB RGBA, then their linear forms. An empty
// list yields BGRA8UnormSrgb, the format every desktop backend supports.
func PreferredFormat(available []gputypes.TextureFormat) gputypes.TextureFormat {
	if len(available) == 0 {
		return gputypes.TextureFormatBGRA8UnormSrgb
	}
	preferred := [4]gputypes.TextureFormat{
		gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatRGBA8Unorm,
	}
	for _, want := range preferred {
		for _, f := range available {
			if f == want {
				return f
			}
		}
	}
	return available[0]
}

// isBGRA reports whether a format stores channels in BGRA order.
func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}
