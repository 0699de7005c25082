package models

// defaultPhotos is the compiled-in photo list served when neither the remote
// service nor the local store has any records. Captions come from the bundled
// asset set.
var defaultPhotos = []PhotoRecord{
	{ID: "1", Src: "images/img-1.jpg", Caption: "Khoảnh khắc này là của mình – của bao nỗ lực không ai thấy", Category: CategoryCeremony, Date: "2024-01-15"},
	{ID: "2", Src: "images/img-2.jpg", Caption: "Chặng đường đại học kết thúc, nhưng hành trình mới bắt đầu 🚀", Category: CategoryCeremony, Date: "2024-01-15"},
	{ID: "3", Src: "images/img-3.jpg", Caption: "Tự hào vì đã không bỏ cuộc – cảm ơn bản thân vì đã mạnh mẽ đến đây! ❤️", Category: CategoryFriends, Date: "2024-01-15"},
	{ID: "4", Src: "images/img-4.jpg", Caption: "Niềm vui và hạnh phúc trong ngày đặc biệt", Category: CategoryCeremony, Date: "2024-01-15"},
	{ID: "5", Src: "images/img-5.jpg", Caption: "Kỷ niệm đẹp cùng bạn bè", Category: CategoryFriends, Date: "2024-01-15"},
	{ID: "6", Src: "images/img-6.jpg", Caption: "Những khoảnh khắc đáng nhớ", Category: CategoryFamily, Date: "2024-01-15"},
	{ID: "7", Src: "images/img-7.jpg", Caption: "Ngày tốt nghiệp đáng nhớ", Category: CategoryCeremony, Date: "2024-01-15"},
	{ID: "8", Src: "images/img-8.jpg", Caption: "Cùng nhau chia sẻ niềm vui", Category: CategoryFriends, Date: "2024-01-15"},
	{ID: "9", Src: "images/img-9.jpg", Caption: "Kỷ niệm không thể quên", Category: CategoryCeremony, Date: "2024-01-15"},
	{ID: "10", Src: "images/img-10.jpg", Caption: "Hạnh phúc tràn đầy", Category: CategoryFamily, Date: "2024-01-15"},
	{ID: "11", Src: "images/img-11.jpg", Caption: "Thành quả xứng đáng", Category: CategoryCeremony, Date: "2024-01-15"},
	{ID: "12", Src: "images/img-12.jpg", Caption: "Niềm tự hào của gia đình", Category: CategoryFamily, Date: "2024-01-15"},
	{ID: "13", Src: "images/img-13.jpg", Caption: "Những ký ức đẹp nhất", Category: CategoryCeremony, Date: "2024-01-15"},
}

// DefaultPhotos returns a fresh, normalized copy of the compiled-in album so
// callers can never mutate the package-level data.
func DefaultPhotos() []PhotoRecord {
	photos := make([]PhotoRecord, len(defaultPhotos))
	copy(photos, defaultPhotos)
	NormalizeAll(photos)
	return photos
}
