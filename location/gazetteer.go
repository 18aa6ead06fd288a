package location

// =============================================================================
// GAZETTEER - Static place tables
// =============================================================================

type PlaceKind string

const (
	PlaceCity       PlaceKind = "city"
	PlacePrefecture PlaceKind = "prefecture"
	PlaceCountry    PlaceKind = "country"
)

// Place is one gazetteer entry. Prefectures and countries carry the
// coordinates of their seat of government.
type Place struct {
	Name        string
	Aliases     []string
	Country     string
	Kind        PlaceKind
	Coordinates Coordinates
	TimeZone    string
}

func (p Place) known() Known {
	return Known{Name: p.Name, Country: p.Country, Coordinates: p.Coordinates, TimeZone: p.TimeZone}
}

func city(name, country string, lat, lon float64, tz string, aliases ...string) Place {
	return Place{Name: name, Aliases: aliases, Country: country, Kind: PlaceCity,
		Coordinates: Coordinates{Latitude: lat, Longitude: lon}, TimeZone: tz}
}

func pref(name string, lat, lon float64, aliases ...string) Place {
	return Place{Name: name, Aliases: aliases, Country: "Japan", Kind: PlacePrefecture,
		Coordinates: Coordinates{Latitude: lat, Longitude: lon}, TimeZone: tokyoZone}
}

func country(name string, lat, lon float64, tz string, aliases ...string) Place {
	return Place{Name: name, Aliases: aliases, Country: name, Kind: PlaceCountry,
		Coordinates: Coordinates{Latitude: lat, Longitude: lon}, TimeZone: tz}
}

const tokyoZone = "Asia/Tokyo"

var cities = []Place{
	// Japan
	city("Tokyo", "Japan", 35.6895, 139.6917, tokyoZone, "東京", "とうきょう"),
	city("Yokohama", "Japan", 35.4478, 139.6425, tokyoZone, "横浜"),
	city("Osaka", "Japan", 34.6937, 135.5023, tokyoZone, "大阪"),
	city("Nagoya", "Japan", 35.1802, 136.9066, tokyoZone, "名古屋"),
	city("Sapporo", "Japan", 43.0642, 141.3469, tokyoZone, "札幌"),
	city("Sendai", "Japan", 38.2682, 140.8694, tokyoZone, "仙台"),
	city("Kyoto", "Japan", 35.0116, 135.7681, tokyoZone, "京都"),
	city("Kobe", "Japan", 34.6901, 135.1955, tokyoZone, "神戸"),
	city("Hiroshima", "Japan", 34.3853, 132.4553, tokyoZone, "広島"),
	city("Fukuoka", "Japan", 33.5904, 130.4017, tokyoZone, "福岡"),
	city("Kitakyushu", "Japan", 33.8834, 130.8752, tokyoZone, "北九州"),
	city("Kawasaki", "Japan", 35.5308, 139.7029, tokyoZone, "川崎"),
	city("Saitama", "Japan", 35.8617, 139.6455, tokyoZone, "さいたま"),
	city("Chiba", "Japan", 35.6074, 140.1065, tokyoZone, "千葉"),
	city("Niigata", "Japan", 37.9162, 139.0364, tokyoZone, "新潟"),
	city("Shizuoka", "Japan", 34.9756, 138.3828, tokyoZone, "静岡"),
	city("Hamamatsu", "Japan", 34.7108, 137.7261, tokyoZone, "浜松"),
	city("Kanazawa", "Japan", 36.5613, 136.6562, tokyoZone, "金沢"),
	city("Okayama", "Japan", 34.6551, 133.9195, tokyoZone, "岡山"),
	city("Matsuyama", "Japan", 33.8392, 132.7657, tokyoZone, "松山"),
	city("Kumamoto", "Japan", 32.8031, 130.7079, tokyoZone, "熊本"),
	city("Kagoshima", "Japan", 31.5966, 130.5571, tokyoZone, "鹿児島"),
	city("Nagasaki", "Japan", 32.7503, 129.8777, tokyoZone, "長崎"),
	city("Naha", "Japan", 26.2124, 127.6809, tokyoZone, "那覇"),
	city("Hakodate", "Japan", 41.7687, 140.7288, tokyoZone, "函館"),
	city("Asahikawa", "Japan", 43.7706, 142.3650, tokyoZone, "旭川"),
	city("Nemuro", "Japan", 43.3301, 145.5828, tokyoZone, "根室"),

	// East and South-East Asia
	city("Seoul", "South Korea", 37.5665, 126.9780, "Asia/Seoul", "서울", "ソウル"),
	city("Busan", "South Korea", 35.1796, 129.0756, "Asia/Seoul", "부산", "釜山", "プサン"),
	city("Beijing", "China", 39.9042, 116.4074, "Asia/Shanghai", "北京", "ペキン"),
	city("Shanghai", "China", 31.2304, 121.4737, "Asia/Shanghai", "上海", "シャンハイ"),
	city("Hong Kong", "China", 22.3193, 114.1694, "Asia/Hong_Kong", "香港"),
	city("Taipei", "Taiwan", 25.0330, 121.5654, "Asia/Taipei", "台北", "臺北"),
	city("Singapore", "Singapore", 1.3521, 103.8198, "Asia/Singapore", "シンガポール"),
	city("Bangkok", "Thailand", 13.7563, 100.5018, "Asia/Bangkok", "バンコク"),
	city("Manila", "Philippines", 14.5995, 120.9842, "Asia/Manila", "マニラ"),
	city("Jakarta", "Indonesia", -6.2088, 106.8456, "Asia/Jakarta", "ジャカルタ"),
	city("New Delhi", "India", 28.6139, 77.2090, "Asia/Kolkata", "Delhi", "デリー"),

	// Oceania
	city("Sydney", "Australia", -33.8688, 151.2093, "Australia/Sydney", "シドニー"),
	city("Canberra", "Australia", -35.2809, 149.1300, "Australia/Sydney"),
	city("Melbourne", "Australia", -37.8136, 144.9631, "Australia/Melbourne", "メルボルン"),
	city("Auckland", "New Zealand", -36.8485, 174.7633, "Pacific/Auckland", "オークランド"),
	city("Wellington", "New Zealand", -41.2865, 174.7762, "Pacific/Auckland"),
	city("Honolulu", "United States", 21.3069, -157.8583, "Pacific/Honolulu", "ホノルル"),

	// Europe
	city("London", "United Kingdom", 51.5074, -0.1278, "Europe/London", "ロンドン"),
	city("Paris", "France", 48.8566, 2.3522, "Europe/Paris", "パリ"),
	city("Berlin", "Germany", 52.5200, 13.4050, "Europe/Berlin", "ベルリン"),
	city("Moscow", "Russia", 55.7558, 37.6173, "Europe/Moscow", "モスクワ"),

	// Americas
	city("New York", "United States", 40.7128, -74.0060, "America/New_York", "ニューヨーク", "NYC"),
	city("Washington", "United States", 38.9072, -77.0369, "America/New_York", "Washington DC"),
	city("Chicago", "United States", 41.8781, -87.6298, "America/Chicago", "シカゴ"),
	city("Los Angeles", "United States", 34.0522, -118.2437, "America/Los_Angeles", "ロサンゼルス", "LA"),
	city("San Francisco", "United States", 37.7749, -122.4194, "America/Los_Angeles", "サンフランシスコ"),
	city("Toronto", "Canada", 43.6532, -79.3832, "America/Toronto", "トロント"),
	city("Ottawa", "Canada", 45.4215, -75.6972, "America/Toronto"),
	city("Vancouver", "Canada", 49.2827, -123.1207, "America/Vancouver", "バンクーバー"),
	city("Mexico City", "Mexico", 19.4326, -99.1332, "America/Mexico_City", "メキシコシティ"),
	city("São Paulo", "Brazil", -23.5505, -46.6333, "America/Sao_Paulo", "Sao Paulo", "サンパウロ"),
	city("Brasília", "Brazil", -15.7939, -47.8828, "America/Sao_Paulo", "Brasilia"),
}

var prefectures = []Place{
	pref("Hokkaido", 43.0642, 141.3469, "北海道"),
	pref("Aomori", 40.8244, 140.7400, "青森"),
	pref("Iwate", 39.7036, 141.1527, "岩手"),
	pref("Miyagi", 38.2682, 140.8694, "宮城"),
	pref("Akita", 39.7186, 140.1024, "秋田"),
	pref("Yamagata", 38.2404, 140.3633, "山形"),
	pref("Fukushima", 37.7503, 140.4676, "福島"),
	pref("Ibaraki", 36.3418, 140.4468, "茨城"),
	pref("Tochigi", 36.5657, 139.8836, "栃木"),
	pref("Gunma", 36.3912, 139.0608, "群馬"),
	pref("Saitama Prefecture", 35.8569, 139.6489, "埼玉"),
	pref("Chiba Prefecture", 35.6047, 140.1233, "千葉県"),
	pref("Tokyo Metropolis", 35.6895, 139.6917, "東京都"),
	pref("Kanagawa", 35.4478, 139.6425, "神奈川"),
	pref("Niigata Prefecture", 37.9026, 139.0236, "新潟県"),
	pref("Toyama", 36.6953, 137.2113, "富山"),
	pref("Ishikawa", 36.5947, 136.6256, "石川"),
	pref("Fukui", 36.0652, 136.2216, "福井"),
	pref("Yamanashi", 35.6642, 138.5684, "山梨"),
	pref("Nagano", 36.6513, 138.1810, "長野"),
	pref("Gifu", 35.3912, 136.7223, "岐阜"),
	pref("Shizuoka Prefecture", 34.9769, 138.3831, "静岡県"),
	pref("Aichi", 35.1802, 136.9066, "愛知"),
	pref("Mie", 34.7303, 136.5086, "三重"),
	pref("Shiga", 35.0045, 135.8686, "滋賀"),
	pref("Kyoto Prefecture", 35.0116, 135.7681, "京都府"),
	pref("Osaka Prefecture", 34.6937, 135.5023, "大阪府"),
	pref("Hyogo", 34.6901, 135.1955, "兵庫"),
	pref("Nara", 34.6851, 135.8048, "奈良"),
	pref("Wakayama", 34.2260, 135.1675, "和歌山"),
	pref("Tottori", 35.5011, 134.2351, "鳥取"),
	pref("Shimane", 35.4723, 133.0505, "島根"),
	pref("Okayama Prefecture", 34.6618, 133.9344, "岡山県"),
	pref("Hiroshima Prefecture", 34.3853, 132.4553, "広島県"),
	pref("Yamaguchi", 34.1859, 131.4714, "山口"),
	pref("Tokushima", 34.0658, 134.5593, "徳島"),
	pref("Kagawa", 34.3401, 134.0434, "香川"),
	pref("Ehime", 33.8416, 132.7657, "愛媛"),
	pref("Kochi", 33.5597, 133.5311, "高知"),
	pref("Fukuoka Prefecture", 33.5904, 130.4017, "福岡県"),
	pref("Saga", 33.2494, 130.2988, "佐賀"),
	pref("Nagasaki Prefecture", 32.7503, 129.8777, "長崎県"),
	pref("Kumamoto Prefecture", 32.8031, 130.7079, "熊本県"),
	pref("Oita", 33.2382, 131.6126, "大分"),
	pref("Miyazaki", 31.9077, 131.4202, "宮崎"),
	pref("Kagoshima Prefecture", 31.5966, 130.5571, "鹿児島県"),
	pref("Okinawa", 26.2124, 127.6809, "沖縄"),
}

var countries = []Place{
	country("Japan", 35.6895, 139.6917, tokyoZone, "日本", "JP", "JPN"),
	country("South Korea", 37.5665, 126.9780, "Asia/Seoul", "Korea", "韓国", "대한민국", "KR"),
	country("China", 39.9042, 116.4074, "Asia/Shanghai", "中国", "中華人民共和国", "CN", "PRC"),
	country("Taiwan", 25.0330, 121.5654, "Asia/Taipei", "台湾", "臺灣", "TW"),
	country("Singapore", 1.3521, 103.8198, "Asia/Singapore", "SG"),
	country("Thailand", 13.7563, 100.5018, "Asia/Bangkok", "タイ", "TH"),
	country("Philippines", 14.5995, 120.9842, "Asia/Manila", "フィリピン", "PH"),
	country("Indonesia", -6.2088, 106.8456, "Asia/Jakarta", "インドネシア", "ID"),
	country("India", 28.6139, 77.2090, "Asia/Kolkata", "インド", "IN"),
	country("Australia", -35.2809, 149.1300, "Australia/Sydney", "オーストラリア", "AU"),
	country("New Zealand", -41.2865, 174.7762, "Pacific/Auckland", "ニュージーランド", "NZ"),
	country("United Kingdom", 51.5074, -0.1278, "Europe/London", "UK", "England", "イギリス", "GB"),
	country("France", 48.8566, 2.3522, "Europe/Paris", "フランス", "FR"),
	country("Germany", 52.5200, 13.4050, "Europe/Berlin", "ドイツ", "DE"),
	country("Russia", 55.7558, 37.6173, "Europe/Moscow", "ロシア", "RU"),
	country("United States", 38.9072, -77.0369, "America/New_York", "USA", "US", "America", "アメリカ", "米国"),
	country("Canada", 45.4215, -75.6972, "America/Toronto", "カナダ", "CA"),
	country("Mexico", 19.4326, -99.1332, "America/Mexico_City", "メキシコ", "MX"),
	country("Brazil", -15.7939, -47.8828, "America/Sao_Paulo", "ブラジル", "BR"),
}
