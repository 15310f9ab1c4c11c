package main

type hospitalSeed struct {
	Name      string
	Address   string
	City      string
	District  string
	State     string
	Latitude  float64
	Longitude float64
	Phone     string
	Email     string
}

func mumbai(name, address string, lat, lon float64, phone, email string) hospitalSeed {
	return hospitalSeed{Name: name, Address: address, City: "Mumbai", District: "Mumbai", State: "Maharashtra", Latitude: lat, Longitude: lon, Phone: phone, Email: email}
}

func jaipur(name, address string, lat, lon float64, phone, email string) hospitalSeed {
	return hospitalSeed{Name: name, Address: address, City: "Jaipur", District: "Jaipur", State: "Rajasthan", Latitude: lat, Longitude: lon, Phone: phone, Email: email}
}

var sampleHospitals = []hospitalSeed{
	mumbai("KEM Hospital", "Acharya Donde Marg, Parel", 19.0030, 72.8417, "+912224107000", "info@kemhospital.org"),
	mumbai("Sion Hospital", "Sion West", 19.0433, 72.8617, "+912224076666", "sion@hospital.gov.in"),
	mumbai("Cooper Hospital", "Juhu Vile Parle Development Scheme", 19.0896, 72.8356, "+912226201000", "cooper@hospital.gov.in"),
	mumbai("Nair Hospital", "Dr. A.L. Nair Road, Mumbai Central", 18.9983, 72.8397, "+912223027643", "nair@hospital.gov.in"),
	mumbai("JJ Hospital", "JJ Marg, Byculla", 18.9625, 72.8314, "+912223735555", "jj@hospital.gov.in"),
	mumbai("Rajawadi Hospital", "Rajawadi, Ghatkopar East", 19.0868, 72.9081, "+912225157000", "rajawadi@hospital.gov.in"),
	mumbai("Shatabdi Hospital", "Govandi", 19.0544, 72.9119, "+912225563000", "shatabdi@hospital.gov.in"),
	mumbai("Kasturba Hospital", "Chinchpokli", 18.9930, 72.8310, "+912223027000", "kasturba@hospital.gov.in"),
	mumbai("MT Agarwal Hospital", "LBS Marg, Mulund West", 19.1760, 72.9560, "+912225643000", "mtagarwal@hospital.gov.in"),
	mumbai("Bhabha Hospital", "Bandra West", 19.0596, 72.8295, "+912226420000", "bhabha@hospital.gov.in"),
	mumbai("VN Desai Hospital", "Santacruz East", 19.0825, 72.8536, "+912226673000", "vndesai@hospital.gov.in"),
	mumbai("Bhagwati Hospital", "Borivali West", 19.2403, 72.8560, "+912228982000", "bhagwati@hospital.gov.in"),

	jaipur("SMS Hospital", "JLN Marg, Near Collectorate Circle", 26.9124, 75.7873, "+911412516294", "sms@hospital.gov.in"),
	jaipur("Jaipuria Hospital", "Sector 5, Malviya Nagar", 26.8467, 75.8238, "+911412751000", "jaipuria@hospital.gov.in"),
	jaipur("Zanana Hospital", "Sanganeri Gate", 26.8983, 75.7873, "+911412603000", "zanana@hospital.gov.in"),
	jaipur("Satellite Hospital", "Vidyadhar Nagar", 26.9707, 75.8265, "+911412722000", "satellite@hospital.gov.in"),
	jaipur("JK Lone Hospital", "Jhalana Doongri", 26.9124, 75.8265, "+911412700000", "jklone@hospital.gov.in"),
	jaipur("Mahila Chikitsalaya", "Gangori Bazaar", 26.9196, 75.7873, "+911412650000", "mahila@hospital.gov.in"),
	jaipur("Kanwatia Hospital", "Shastri Nagar", 26.9497, 75.7873, "+911412680000", "kanwatia@hospital.gov.in"),
	jaipur("Mahatma Gandhi Hospital", "Jawahar Lal Nehru Marg, Sector 5", 26.8467, 75.8150, "+911412751500", "mghospital@hospital.gov.in"),
}
