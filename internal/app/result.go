package app

// Render 用于渲染 HTML 模板
type Render struct {
	Name string      // 模板文件名
	Data interface{} // 模板数据
}

// RedirectResult 用于重定向
type RedirectResult struct {
	Code     int    // 状态码 (如 301, 302)
	Location string // 跳转目标地址
}

// DataResult 用于返回原始字节流 (如图片、验证码)
type DataResult struct {
	ContentType string
	Data        []byte
}

// FileResult 用于返回本地文件或触发下载
type FileResult struct {
	FilePath string
	FileName string // 如果不为空，则作为附件下载
}
